package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rcliao/meeting-planner/internal/model"
)

const (
	week        = "4-10 de NOV, 2024"
	meetingDate = "2024-11-07"
)

func publishers() []model.Publisher {
	off := false
	return []model.Publisher{
		{ID: "ana", Name: "Ana Lima", AgeGroup: model.AgeAdult},
		{ID: "bia", Name: "Bia Lima", AgeGroup: model.AgeChild, ParentIDs: []string{"ana"}},
		{ID: "caio", Name: "Caio Reis", AgeGroup: model.AgeAdult},
		{ID: "duda", Name: "Duda Reis", AgeGroup: model.AgeAdult, Availability: model.Availability{Mode: model.AvailableAlways, ExceptionDates: []string{meetingDate}}},
		{ID: "eva", Name: "Eva Paz", AgeGroup: model.AgeAdult, IsServing: &off},
	}
}

func parts() []Part {
	return []Part{
		{Title: "Leitura da Bíblia", Type: model.Treasures},
		{Title: "Iniciando conversas", Type: model.Ministry},
		{Title: "Discurso", Type: model.Ministry},
	}
}

func TestValidate(t *testing.T) {
	last := map[string]string{"Ana Lima": "21-27 de OUT, 2024"}
	suggestions := []Suggestion{
		{PartTitle: "Leitura da Bíblia", StudentName: "Caio Reis", HelperName: "N/A"},
		{PartTitle: "Iniciando conversas", StudentName: "bia lima", HelperName: "Ana Lima"},
		{PartTitle: "Discurso", StudentName: "Ana Lima", HelperName: "Caio Reis"},
		{PartTitle: "Parte inventada", StudentName: "Ana Lima", HelperName: "N/A"},
		{PartTitle: "Leitura da Bíblia", StudentName: "Fulano", HelperName: "N/A"},
		{PartTitle: "Leitura da Bíblia", StudentName: "Duda Reis", HelperName: "N/A"},
		{PartTitle: "Leitura da Bíblia", StudentName: "Eva Paz", HelperName: "N/A"},
		{PartTitle: "Iniciando conversas", StudentName: "Bia Lima", HelperName: "Caio Reis"},
		{PartTitle: "Iniciando conversas", StudentName: "Caio Reis", HelperName: "N/A"},
		{PartTitle: "Iniciando conversas", StudentName: "Caio Reis", HelperName: "Caio Reis"},
		{PartTitle: "Iniciando conversas", StudentName: "Caio Reis", HelperName: "Duda Reis"},
	}

	accepted, rejected := Validate(suggestions, parts(), publishers(), last, meetingDate)
	if len(accepted) != 3 {
		t.Fatalf("expected 3 accepted, got %d: %+v", len(accepted), accepted)
	}
	if len(rejected) != 8 {
		t.Fatalf("expected 8 rejected, got %d: %+v", len(rejected), rejected)
	}

	if accepted[0].HelperName != "" || accepted[0].Reason != "Última parte em nunca." {
		t.Errorf("unexpected first assignment %+v", accepted[0])
	}
	if accepted[1].StudentName != "Bia Lima" || accepted[1].HelperName != "Ana Lima" {
		t.Errorf("expected canonical names, got %+v", accepted[1])
	}
	if accepted[2].HelperName != "" || accepted[2].Reason != "Última parte em 21-27 de OUT, 2024." {
		t.Errorf("talks take no helper, got %+v", accepted[2])
	}

	wantReasons := []string{
		"parte desconhecida",
		"publicador desconhecido",
		"publicador indisponível",
		"publicador indisponível",
		"Crianças só podem ter um dos pais como ajudante. Autorização para terceiros não concedida.",
		"parte requer ajudante",
		"ajudante igual ao estudante",
		"ajudante indisponível",
	}
	for i, want := range wantReasons {
		if rejected[i].Reason != want {
			t.Errorf("rejection %d: expected %q, got %q", i, want, rejected[i].Reason)
		}
	}
}

func TestPartsToFill(t *testing.T) {
	records := []model.Participation{
		{ID: "p", Week: week, Type: model.President, PartTitle: "Presidente"},
		{ID: "t", Week: week, Type: model.Treasures, PartTitle: "Leitura da Bíblia"},
		{ID: "c", Week: week, Type: model.BibleStudyConductor, PartTitle: "Estudo bíblico de congregação"},
	}
	event := &model.SpecialEvent{ID: "ev", Week: week, Theme: "Discurso de serviço", AssignedTo: "Caio Reis"}
	tpl := &model.EventTemplate{Impact: model.Impact{Action: model.ReplacePart, TargetTypes: []model.ParticipationType{model.BibleStudyConductor}}}

	got := PartsToFill(records, event, tpl)
	if len(got) != 2 {
		t.Fatalf("expected 2 parts, got %+v", got)
	}
	if got[1].Title != "Discurso de serviço" || got[1].AssignedTo != "Caio Reis" {
		t.Errorf("unexpected special part %+v", got[1])
	}

	plain := PartsToFill(records, nil, nil)
	if len(plain) != 2 || plain[1].Type != model.BibleStudyConductor {
		t.Errorf("unexpected parts %+v", plain)
	}
}

func TestBuildPrompt(t *testing.T) {
	ps := append(parts(), Part{Title: "Discurso de serviço", Type: model.ChristianLife, AssignedTo: "Caio Reis"})
	prompt := BuildPrompt(week, meetingDate, ps, publishers(), map[string]string{"Ana Lima": "21-27 de OUT, 2024"})

	for _, want := range []string{
		`"4-10 de NOV, 2024"`,
		`Título: "Iniciando conversas", Tipo: MINISTRY (Requer Par)`,
		"Regra Especial: Designar Caio Reis",
		"Nome: Ana Lima, ID: ana, Faixa Etária: Adulto, Última designação: 21-27 de OUT, 2024",
		"Nome: Caio Reis, ID: caio, Faixa Etária: Adulto, Última designação: nunca",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(prompt, `"Discurso", Tipo: MINISTRY (Requer Par)`) {
		t.Error("talks must not require a pair")
	}
	for _, absent := range []string{"Duda Reis", "Eva Paz"} {
		if strings.Contains(prompt, absent) {
			t.Errorf("unavailable publisher %q listed", absent)
		}
	}
}

func TestClientSuggest(t *testing.T) {
	var got proxyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{
			"rawText": `[{"partTitle":"Leitura da Bíblia","studentName":"Caio Reis","helperName":"N/A"}]`,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), time.Second)
	out, err := c.Suggest(context.Background(), "  prompt  ")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(out) != 1 || out[0].StudentName != "Caio Reis" {
		t.Errorf("unexpected suggestions %+v", out)
	}
	if got.Prompt != "prompt" || got.ResponseSchema == nil {
		t.Errorf("unexpected request body %+v", got)
	}
}

func TestClientErrors(t *testing.T) {
	if _, err := NewClient("", nil, time.Second).Suggest(context.Background(), "p"); !errors.Is(err, ErrNoStrategy) {
		t.Errorf("expected ErrNoStrategy, got %v", err)
	}

	tests := []struct {
		name    string
		status  int
		body    string
		wantBad bool
	}{
		{"server error", http.StatusBadGateway, `{"error":"down"}`, false},
		{"empty text", http.StatusOK, `{"text":""}`, true},
		{"not json", http.StatusOK, `{"text":"sorry, I cannot"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, srv.Client(), time.Second).Suggest(context.Background(), "p")
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrBadResponse) != tt.wantBad {
				t.Errorf("expected ErrBadResponse=%v, got %v", tt.wantBad, err)
			}
		})
	}
}
