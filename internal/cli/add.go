package cli

import (
	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a participation record by hand",
		Long:  "Add one assignment. The type is inferred from the title when omitted and the date is derived from the week.",
		Run:   runAdd,
	}

	cmd.Flags().StringP("week", "w", "", "Week label (required)")
	cmd.Flags().String("title", "", "Part title (required)")
	cmd.Flags().StringP("publisher", "p", "", "Publisher name")
	cmd.Flags().StringP("type", "t", "", "Participation type (inferred when empty)")
	cmd.Flags().Int("duration", 0, "Duration in minutes")
	cmd.Flags().Int("part-number", 0, "Printed part number")
	cmd.Flags().Float64("order", 0, "Position within the week")

	cmd.MarkFlagRequired("week")
	cmd.MarkFlagRequired("title")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	week, _ := cmd.Flags().GetString("week")
	title, _ := cmd.Flags().GetString("title")
	publisher, _ := cmd.Flags().GetString("publisher")
	typeStr, _ := cmd.Flags().GetString("type")
	duration, _ := cmd.Flags().GetInt("duration")
	partNumber, _ := cmd.Flags().GetInt("part-number")
	order, _ := cmd.Flags().GetFloat64("order")

	p := model.Participation{
		Week:          weekArg(week),
		PartTitle:     title,
		PublisherName: publisher,
		Order:         order,
	}
	if typeStr != "" {
		t, err := model.ParseType(typeStr)
		if err != nil {
			exitErr("add", err)
		}
		p.Type = t
	}
	if duration > 0 {
		p.Duration = model.IntPtr(duration)
	}
	if partNumber > 0 {
		p.PartNumber = model.IntPtr(partNumber)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	added, err := s.AddParticipation(cmd.Context(), p)
	if err != nil {
		exitErr("add", err)
	}
	printJSON(added)
}
