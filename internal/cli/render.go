package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rcliao/meeting-planner/internal/schedule"
)

var (
	colorCyan   = lipgloss.Color("#00FFFF")
	colorGray   = lipgloss.Color("#666666")
	colorYellow = lipgloss.Color("#FFFF00")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	timeStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Width(6)

	partStyle = lipgloss.NewStyle().
			Width(44)

	counselStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true).
			Width(44)

	durationStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

var sectionNames = map[schedule.Section]string{
	schedule.SectionOpening:    "Abertura",
	schedule.SectionTreasures:  "Tesouros da Palavra de Deus",
	schedule.SectionTransition: "Cântico",
	schedule.SectionMinistry:   "Faça Seu Melhor no Ministério",
	schedule.SectionLife:       "Nossa Vida Cristã",
	schedule.SectionClosing:    "Encerramento",
}

// renderTimeline draws the agenda as a terminal table grouped by section.
func renderTimeline(week, date string, events []schedule.TimedEvent) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", week, date)))
	b.WriteByte('\n')

	var current schedule.Section
	for _, e := range events {
		sec := e.SectionType
		// Initial comments sit under the opening heading.
		if sec == schedule.SectionComments {
			sec = schedule.SectionOpening
		}
		if sec != current {
			current = sec
			b.WriteString(sectionStyle.Render(sectionNames[current]))
			b.WriteByte('\n')
		}
		style := partStyle
		if e.IsCounseling {
			style = counselStyle
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			timeStyle.Render(e.StartTime),
			style.Render(e.PartTitle+" "+durationStyle.Render(e.DurationText)),
			e.PublisherName,
		)
		b.WriteString(row)
		b.WriteByte('\n')
	}
	return b.String()
}
