package cli

import (
	"fmt"

	"github.com/rcliao/meeting-planner/internal/weekdate"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "List stored weeks in chronological order",
		Run:   runWeeks,
	}

	cmd.Flags().String("workbook", "", "List the weeks of a workbook name such as \"NOV/DEZ 2024\" instead")

	RootCmd.AddCommand(cmd)
}

type weekInfo struct {
	Week string `json:"week"`
	Date string `json:"date"`
}

func runWeeks(cmd *cobra.Command, args []string) {
	workbook, _ := cmd.Flags().GetString("workbook")

	var weeks []string
	if workbook != "" {
		weeks = weekdate.WeeksForWorkbook(workbook)
	} else {
		s, err := openStore()
		if err != nil {
			exitErr("open store", err)
		}
		defer s.Close()

		weeks, err = s.Weeks(cmd.Context())
		if err != nil {
			exitErr("weeks", err)
		}
	}

	infos := make([]weekInfo, 0, len(weeks))
	for _, w := range weeks {
		date := ""
		if d, ok := weekdate.MeetingDate(w); ok {
			date = d.Format("2006-01-02")
		}
		infos = append(infos, weekInfo{Week: w, Date: date})
	}

	if formatFlag == "text" {
		for _, w := range infos {
			fmt.Printf("%s\t%s\n", w.Date, w.Week)
		}
		return
	}
	printJSON(infos)
}
