package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Inspect and restore per-week import snapshots",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List week snapshots",
		Run:   runBackupList,
	}

	restore := &cobra.Command{
		Use:   "restore <week>",
		Short: "Replace a week's records with its snapshot",
		Args:  cobra.ExactArgs(1),
		Run:   runBackupRestore,
	}

	rm := &cobra.Command{
		Use:   "rm <week>",
		Short: "Delete a week snapshot",
		Args:  cobra.ExactArgs(1),
		Run:   runBackupRm,
	}

	cmd.AddCommand(list, restore, rm)
	RootCmd.AddCommand(cmd)
}

func runBackupList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	backups, err := s.ListBackups(cmd.Context())
	if err != nil {
		exitErr("backup list", err)
	}

	if formatFlag == "text" {
		for _, b := range backups {
			fmt.Printf("%s\t%d records\t%s\n", b.Week, len(b.Participations), b.ImportedAt.Format("2006-01-02 15:04"))
		}
		return
	}
	printJSON(backups)
}

func runBackupRestore(cmd *cobra.Command, args []string) {
	week := weekArg(args[0])

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.RestoreBackup(cmd.Context(), week)
	if err != nil {
		exitErr("backup restore", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"week":%q,"restored":%d}`+"\n", week, n)
}

func runBackupRm(cmd *cobra.Command, args []string) {
	week := weekArg(args[0])

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteBackup(cmd.Context(), week); err != nil {
		exitErr("backup rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"week":%q}`+"\n", week)
}
