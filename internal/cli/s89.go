package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/meeting-planner/internal/s89"
	"github.com/rcliao/meeting-planner/internal/schedule"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "send-s89 <week> <part-number>",
		Short: "Send the S-89 assignment slip of a part to the webhook",
		Long:  "Send the slip for the part numbered <part-number> in the week's timeline to the configured webhook.",
		Args:  cobra.ExactArgs(2),
		Run:   runSendS89,
	}

	cmd.Flags().Bool("dry-run", false, "Print the payload without sending")

	RootCmd.AddCommand(cmd)
}

func runSendS89(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	number, err := strconv.Atoi(args[1])
	if err != nil {
		exitErr("part number", err)
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

	var part *schedule.RenderablePart
	prefix := fmt.Sprintf("%d. ", number)
	for _, e := range schedule.BuildTimeline(week, records, events, templates) {
		if !e.IsCounseling && e.RawPart != nil && strings.HasPrefix(e.PartTitle, prefix) {
			part = e.RawPart
			break
		}
	}
	if part == nil {
		exitErr("send-s89", fmt.Errorf("no part %d in week %q", number, week))
	}

	payload, err := s89.PreparePayload(*part, publishers)
	if err != nil {
		exitErr("prepare s89", err)
	}
	if dryRun {
		printJSON(payload)
		return
	}
	if err := s89.NewSender(cfg.WebhookURL, nil).Send(ctx, payload); err != nil {
		exitErr("send s89", err)
	}
	printJSON(payload)
}
