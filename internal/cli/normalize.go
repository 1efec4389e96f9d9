package cli

import (
	"strings"
	"time"

	"github.com/rcliao/meeting-planner/internal/weekdate"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "normalize-week <label>",
		Short: "Show the canonical form and meeting date of a week heading",
		Args:  cobra.MinimumNArgs(1),
		Run:   runNormalizeWeek,
	}

	cmd.Flags().Int("year", 0, "Year to assume when the heading has none (default: current year)")

	RootCmd.AddCommand(cmd)
}

type normalizedWeek struct {
	Input     string `json:"input"`
	Week      string `json:"week"`
	StartDate string `json:"start_date"`
	Date      string `json:"date"`
	Parsed    bool   `json:"parsed"`
}

func runNormalizeWeek(cmd *cobra.Command, args []string) {
	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().Year()
	}
	raw := strings.Join(args, " ")

	week := weekdate.StandardizeWeekDate(raw, year)
	_, ok := weekdate.MeetingDate(week)
	start, _, _ := strings.Cut(weekdate.ParseWeekDate(week).Format(weekdate.ISOLayout), "T")
	date, _, _ := strings.Cut(weekdate.CalculatePartDate(week), "T")

	printJSON(normalizedWeek{Input: raw, Week: week, StartDate: start, Date: date, Parsed: ok})
}
