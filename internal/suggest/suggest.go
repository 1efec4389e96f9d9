// Package suggest builds scheduling prompts for an AI proxy and validates the
// assignments it proposes against availability and pairing rules.
package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/schedule"
)

// NotApplicable is the helper value meaning "no helper".
const NotApplicable = "N/A"

// Never is the last-assignment label for publishers with no history.
const Never = "nunca"

// Part is an agenda item waiting for an assignment.
type Part struct {
	Title      string                  `json:"title"`
	Type       model.ParticipationType `json:"type"`
	Duration   *int                    `json:"duration,omitempty"`
	AssignedTo string                  `json:"assigned_to,omitempty"`
}

// NeedsPair reports whether the part takes a helper.
func (p Part) NeedsPair() bool {
	return p.Type == model.Ministry && !strings.Contains(strings.ToLower(p.Title), "discurso")
}

var fillable = map[model.ParticipationType]bool{
	model.Treasures:           true,
	model.Ministry:            true,
	model.ChristianLife:       true,
	model.BibleStudyConductor: true,
}

// PartsToFill lists the assignable parts of a week after applying its
// special event, if any. The special part keeps its assigned publisher.
func PartsToFill(records []model.Participation, event *model.SpecialEvent, tpl *model.EventTemplate) []Part {
	var parts []Part
	for _, r := range schedule.ApplyImpact(records, event, tpl) {
		if !fillable[r.Type] {
			continue
		}
		p := Part{Title: r.PartTitle, Type: r.Type, Duration: r.Duration}
		if event != nil && r.ID == event.ID {
			p.AssignedTo = event.AssignedTo
		}
		parts = append(parts, p)
	}
	return parts
}

// Suggestion is one assignment proposed by the model.
type Suggestion struct {
	PartTitle   string `json:"partTitle"`
	StudentName string `json:"studentName"`
	HelperName  string `json:"helperName"`
}

// Assignment is an accepted suggestion.
type Assignment struct {
	PartTitle   string `json:"part_title"`
	StudentName string `json:"student_name"`
	HelperName  string `json:"helper_name,omitempty"`
	Reason      string `json:"reason"`
}

// Rejection is a suggestion that failed validation.
type Rejection struct {
	Suggestion Suggestion `json:"suggestion"`
	Reason     string     `json:"reason"`
}

// ParseSuggestions decodes the model's JSON array.
func ParseSuggestions(text string) ([]Suggestion, error) {
	var out []Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return out, nil
}

// BuildPrompt renders the instruction sent to the model. last maps publisher
// names to the week of their latest assignment.
func BuildPrompt(week, meetingDate string, parts []Part, publishers []model.Publisher, last map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Você é um assistente especialista em criar pautas de reuniões. Preencha a pauta da semana de %q, que ocorrerá em %s.\n\n", week, meetingDate)

	b.WriteString("**1. Designações a Serem Preenchidas:**\n")
	for _, p := range parts {
		fmt.Fprintf(&b, "- Título: %q, Tipo: %s", p.Title, p.Type)
		if p.NeedsPair() {
			b.WriteString(" (Requer Par)")
		}
		if p.AssignedTo != "" {
			fmt.Fprintf(&b, " (Regra Especial: Designar %s)", p.AssignedTo)
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n**2. Publicadores Disponíveis:**\n")
	for _, p := range publishers {
		if !p.AvailableOn(meetingDate) {
			continue
		}
		fmt.Fprintf(&b, "- Nome: %s, ID: %s, Faixa Etária: %s, Última designação: %s\n", p.Name, p.ID, p.AgeGroup, lastWeek(last, p.Name))
	}

	b.WriteString("\n**3. Instruções Críticas:**\n")
	b.WriteString("- Rodízio: dê preferência a quem está há mais tempo sem designação.\n")
	b.WriteString("- Crianças só podem ter como ajudante um dos pais, ou um adulto quando autorizado.\n")
	b.WriteString("- Estudante e ajudante devem ser pessoas diferentes.\n")

	b.WriteString("\n**4. Formato da Resposta:** array JSON com partTitle, studentName e helperName (use \"N/A\" quando não houver ajudante).\n")
	return b.String()
}

// Validate accepts a suggestion only when the part and student exist, the
// student is available on meetingDate, and pairable parts carry a valid
// helper. Suggestions are never trusted as-is.
func Validate(suggestions []Suggestion, parts []Part, publishers []model.Publisher, last map[string]string, meetingDate string) ([]Assignment, []Rejection) {
	dir := model.NewDirectory(publishers)
	byTitle := make(map[string]Part, len(parts))
	for _, p := range parts {
		byTitle[strings.TrimSpace(p.Title)] = p
	}

	var (
		accepted []Assignment
		rejected []Rejection
	)
	reject := func(s Suggestion, reason string) {
		rejected = append(rejected, Rejection{Suggestion: s, Reason: reason})
	}

	for _, s := range suggestions {
		part, ok := byTitle[strings.TrimSpace(s.PartTitle)]
		if !ok {
			reject(s, "parte desconhecida")
			continue
		}
		student, ok := dir.Lookup(s.StudentName)
		if !ok {
			reject(s, "publicador desconhecido")
			continue
		}
		if !student.AvailableOn(meetingDate) {
			reject(s, "publicador indisponível")
			continue
		}

		helperName := strings.TrimSpace(s.HelperName)
		if strings.EqualFold(helperName, NotApplicable) {
			helperName = ""
		}
		if part.NeedsPair() {
			if helperName == "" {
				reject(s, "parte requer ajudante")
				continue
			}
			helper, ok := dir.Lookup(helperName)
			if !ok {
				reject(s, "ajudante desconhecido")
				continue
			}
			if helper.ID == student.ID {
				reject(s, "ajudante igual ao estudante")
				continue
			}
			if !helper.AvailableOn(meetingDate) {
				reject(s, "ajudante indisponível")
				continue
			}
			if res := model.ValidatePairing(student, helper); !res.Valid {
				reject(s, res.Reason)
				continue
			}
			helperName = helper.Name
		} else {
			helperName = ""
		}

		accepted = append(accepted, Assignment{
			PartTitle:   part.Title,
			StudentName: student.Name,
			HelperName:  helperName,
			Reason:      fmt.Sprintf("Última parte em %s.", lastWeek(last, student.Name)),
		})
	}
	return accepted, rejected
}

func lastWeek(last map[string]string, name string) string {
	if w, ok := last[name]; ok && w != "" {
		return w
	}
	return Never
}
