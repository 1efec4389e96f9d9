package cli

import (
	"fmt"
	"os"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	event := &cobra.Command{
		Use:   "event",
		Short: "Manage special events",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule a special event for a week",
		Run:   runEventAdd,
	}
	add.Flags().StringP("week", "w", "", "Week label (required)")
	add.Flags().String("template", "", "Template ID (required)")
	add.Flags().String("theme", "", "Title of the special part (required)")
	add.Flags().String("assigned-to", "", "Publisher giving the special part")
	add.Flags().Int("duration", 0, "Duration in minutes")
	add.Flags().String("reduce-type", "", "Shorten the first part of this type")
	add.Flags().Int("reduce-minutes", 0, "Minutes to take from that part")
	add.MarkFlagRequired("week")
	add.MarkFlagRequired("template")
	add.MarkFlagRequired("theme")

	list := &cobra.Command{
		Use:   "list",
		Short: "List special events",
		Run:   runEventList,
	}
	list.Flags().StringP("week", "w", "", "Filter by week label")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a special event",
		Args:  cobra.ExactArgs(1),
		Run:   runEventRm,
	}

	event.AddCommand(add, list, rm)

	template := &cobra.Command{
		Use:   "template",
		Short: "Manage special-event templates",
	}

	tplAdd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create or update a template",
		Args:  cobra.ExactArgs(1),
		Run:   runTemplateAdd,
	}
	tplAdd.Flags().String("id", "", "Existing template ID to update")
	tplAdd.Flags().String("action", "", "ADD_PART, REPLACE_PART or REPLACE_SECTION (required)")
	tplAdd.Flags().String("targets", "", "Target participation types (comma-separated)")
	tplAdd.MarkFlagRequired("action")

	tplList := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Run:   runTemplateList,
	}

	tplLoad := &cobra.Command{
		Use:   "load <file.yaml>",
		Short: "Load templates from a YAML file",
		Args:  cobra.ExactArgs(1),
		Run:   runTemplateLoad,
	}

	template.AddCommand(tplAdd, tplList, tplLoad)

	RootCmd.AddCommand(event, template)
}

func runEventAdd(cmd *cobra.Command, args []string) {
	week, _ := cmd.Flags().GetString("week")
	templateID, _ := cmd.Flags().GetString("template")
	theme, _ := cmd.Flags().GetString("theme")
	assignedTo, _ := cmd.Flags().GetString("assigned-to")
	duration, _ := cmd.Flags().GetInt("duration")
	reduceType, _ := cmd.Flags().GetString("reduce-type")
	reduceMinutes, _ := cmd.Flags().GetInt("reduce-minutes")

	ev := model.SpecialEvent{
		Week:       weekArg(week),
		TemplateID: templateID,
		Theme:      theme,
		AssignedTo: assignedTo,
	}
	if duration > 0 {
		ev.Duration = model.IntPtr(duration)
	}
	if reduceType != "" && reduceMinutes > 0 {
		t, err := model.ParseType(reduceType)
		if err != nil {
			exitErr("event add", err)
		}
		ev.TimeReduction = &model.TimeReduction{TargetType: t, Minutes: reduceMinutes}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	saved, err := s.PutSpecialEvent(cmd.Context(), ev)
	if err != nil {
		exitErr("event add", err)
	}
	printJSON(saved)
}

func runEventList(cmd *cobra.Command, args []string) {
	week, _ := cmd.Flags().GetString("week")
	if week != "" {
		week = weekArg(week)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	events, err := s.SpecialEvents(cmd.Context(), week)
	if err != nil {
		exitErr("event list", err)
	}
	printJSON(events)
}

func runEventRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteSpecialEvent(cmd.Context(), args[0]); err != nil {
		exitErr("event rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}

func runTemplateAdd(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	action, _ := cmd.Flags().GetString("action")
	targets, _ := cmd.Flags().GetString("targets")

	tpl := model.EventTemplate{ID: id, Name: args[0], Impact: model.Impact{Action: model.ImpactAction(action)}}
	for _, raw := range splitList(targets) {
		t, err := model.ParseType(raw)
		if err != nil {
			exitErr("template add", err)
		}
		tpl.Impact.TargetTypes = append(tpl.Impact.TargetTypes, t)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	saved, err := s.PutTemplate(cmd.Context(), tpl)
	if err != nil {
		exitErr("template add", err)
	}
	printJSON(saved)
}

func runTemplateList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	templates, err := s.Templates(cmd.Context())
	if err != nil {
		exitErr("template list", err)
	}
	printJSON(templates)
}

func runTemplateLoad(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		exitErr("read templates", err)
	}
	var templates []model.EventTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		exitErr("parse yaml", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	saved := make([]*model.EventTemplate, 0, len(templates))
	for _, tpl := range templates {
		t, err := s.PutTemplate(cmd.Context(), tpl)
		if err != nil {
			exitErr("template load", fmt.Errorf("%s: %w", tpl.Name, err))
		}
		saved = append(saved, t)
	}
	printJSON(saved)
}
