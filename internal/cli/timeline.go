package cli

import (
	"fmt"
	"os"

	"github.com/rcliao/meeting-planner/internal/calexport"
	"github.com/rcliao/meeting-planner/internal/schedule"
	"github.com/rcliao/meeting-planner/internal/weekdate"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "timeline <week>",
		Short: "Show the timed agenda of a week",
		Args:  cobra.ExactArgs(1),
		Run:   runTimeline,
	}

	cmd.Flags().String("ics", "", "Also write the agenda as an iCalendar file")

	RootCmd.AddCommand(cmd)
}

func runTimeline(cmd *cobra.Command, args []string) {
	icsPath, _ := cmd.Flags().GetString("ics")
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
	if len(records) == 0 {
		exitErr("timeline", fmt.Errorf("no records for week %q", week))
	}
	events, err := s.SpecialEvents(ctx, week)
	if err != nil {
		exitErr("load events", err)
	}
	templates, err := s.Templates(ctx)
	if err != nil {
		exitErr("load templates", err)
	}

	timeline := schedule.BuildTimeline(week, records, events, templates)
	date, _ := weekdate.MeetingDate(week)

	if icsPath != "" {
		cal, err := calexport.Calendar(week, date, timeline, cfg.TimeLocation(), cfg.Hall)
		if err != nil {
			exitErr("calendar", err)
		}
		if err := os.WriteFile(icsPath, []byte(cal.Serialize()), 0o644); err != nil {
			exitErr("write ics", err)
		}
	}

	if formatFlag == "text" {
		fmt.Print(renderTimeline(week, date.Format("2006-01-02"), timeline))
		return
	}
	printJSON(timeline)
}
