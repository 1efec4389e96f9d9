package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rcliao/meeting-planner/internal/schedule"
	"github.com/rcliao/meeting-planner/internal/suggest"
	"github.com/rcliao/meeting-planner/internal/weekdate"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "suggest <week>",
		Short: "Validate assignment suggestions for a week",
		Long: `Validate {partTitle, studentName, helperName} suggestions against publisher
availability and pairing rules. Suggestions come from a JSON file (--file) or
from the configured AI proxy (--ai).`,
		Args: cobra.ExactArgs(1),
		Run:  runSuggest,
	}

	cmd.Flags().String("file", "", "JSON file with suggestions")
	cmd.Flags().Bool("ai", false, "Ask the AI proxy for suggestions")
	cmd.Flags().Bool("prompt", false, "Print the AI prompt and exit")

	RootCmd.AddCommand(cmd)
}

type suggestResult struct {
	Week     string               `json:"week"`
	Date     string               `json:"date"`
	Accepted []suggest.Assignment `json:"accepted"`
	Rejected []suggest.Rejection  `json:"rejected"`
}

func runSuggest(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	useAI, _ := cmd.Flags().GetBool("ai")
	promptOnly, _ := cmd.Flags().GetBool("prompt")
	if !promptOnly && (file == "") == !useAI {
		exitErr("suggest", errors.New("exactly one of --file or --ai is required"))
	}

	week := weekArg(args[0])
	ctx := cmd.Context()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.WeekParticipations(ctx, week)
	if err != nil {
		exitErr("load week", err)
	}
	events, err := s.SpecialEvents(ctx, week)
	if err != nil {
		exitErr("load events", err)
	}
	templates, err := s.Templates(ctx)
	if err != nil {
		exitErr("load templates", err)
	}
	publishers, err := s.ListPublishers(ctx)
	if err != nil {
		exitErr("list publishers", err)
	}
	last, err := s.LastAssignments(ctx)
	if err != nil {
		exitErr("last assignments", err)
	}

	ev, tpl, _ := schedule.EventForWeek(events, templates, week)
	parts := suggest.PartsToFill(records, ev, tpl)
	if len(parts) == 0 {
		exitErr("suggest", fmt.Errorf("no parts to fill for week %q", week))
	}
	date, _, _ := strings.Cut(weekdate.CalculatePartDate(week), "T")
	prompt := suggest.BuildPrompt(week, date, parts, publishers, last)

	if promptOnly {
		fmt.Print(prompt)
		return
	}

	var suggestions []suggest.Suggestion
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			exitErr("read suggestions", err)
		}
		suggestions, err = suggest.ParseSuggestions(string(data))
		if err != nil {
			exitErr("parse suggestions", err)
		}
	} else {
		client := suggest.NewClient(cfg.AI.ProxyURL, nil, cfg.AITimeout())
		suggestions, err = client.Suggest(ctx, prompt)
		if err != nil {
			exitErr("ai suggest", err)
		}
	}

	accepted, rejected := suggest.Validate(suggestions, parts, publishers, last, date)
	printJSON(suggestResult{Week: week, Date: date, Accepted: accepted, Rejected: rejected})
}
