package cli

import (
	"github.com/rcliao/meeting-planner/internal/historic"
	"github.com/rcliao/meeting-planner/internal/importer"
	appLog "github.com/rcliao/meeting-planner/internal/log"
	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/rcliao/meeting-planner/internal/pdftext"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import-pdf <file>",
		Short: "Import a historical schedule PDF",
		Long:  "Parse a printed schedule PDF into weekly assignments, resolve names against registered publishers and store the new records.",
		Args:  cobra.ExactArgs(1),
		Run:   runImportPDF,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and report without storing")

	RootCmd.AddCommand(cmd)
}

func runImportPDF(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	parser := historic.NewParser(pdftext.NewPDFExtractor())
	weeks, err := parser.ParseDocument(ctx, args[0])
	if err != nil {
		exitErr("parse pdf", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	publishers, err := s.ListPublishers(ctx)
	if err != nil {
		exitErr("list publishers", err)
	}

	var existing []model.Participation
	for _, w := range weeks {
		records, err := s.WeekParticipations(ctx, w.Week)
		if err != nil {
			exitErr("load week", err)
		}
		existing = append(existing, records...)
	}

	res := importer.Plan(weeks, existing, publishers)
	if dryRun || len(res.Records) == 0 {
		printJSON(res)
		return
	}

	inserted, err := s.ImportBatch(ctx, res.Records)
	if err != nil {
		exitErr("import", err)
	}
	if _, err := s.SaveHistoryBackup(ctx, inserted); err != nil {
		appLog.Error("history backup failed", err)
	}

	printJSON(res.Report)
}
