package cli

import (
	"fmt"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List participation records",
		Run:   runList,
	}

	cmd.Flags().StringP("week", "w", "", "Filter by week label")
	cmd.Flags().StringP("publisher", "p", "", "Filter by publisher name")
	cmd.Flags().StringP("type", "t", "", "Filter by participation type")
	cmd.Flags().IntP("limit", "l", 100, "Max results")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	week, _ := cmd.Flags().GetString("week")
	publisher, _ := cmd.Flags().GetString("publisher")
	typeStr, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	var typ model.ParticipationType
	if typeStr != "" {
		t, err := model.ParseType(typeStr)
		if err != nil {
			exitErr("list", err)
		}
		typ = t
	}
	if week != "" {
		week = weekArg(week)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ListParticipations(cmd.Context(), store.ListParams{
		Week:      week,
		Publisher: publisher,
		Type:      typ,
		Limit:     limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if formatFlag == "text" {
		for _, r := range records {
			fmt.Printf("%s\t%s\t%s\t%s\n", r.Week, r.Type, r.PartTitle, r.PublisherName)
		}
		return
	}
	printJSON(records)
}
