package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a record or a whole week",
		Run:   runRm,
	}

	cmd.Flags().String("id", "", "Record ID")
	cmd.Flags().StringP("week", "w", "", "Delete every record of this week")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	week, _ := cmd.Flags().GetString("week")
	if (id == "") == (week == "") {
		exitErr("rm", errors.New("exactly one of --id or --week is required"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if id != "" {
		if err := s.DeleteParticipation(cmd.Context(), id); err != nil {
			exitErr("rm", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", id)
		return
	}

	week = weekArg(week)
	n, err := s.DeleteWeek(cmd.Context(), week)
	if err != nil {
		exitErr("rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"week":%q,"deleted":%d}`+"\n", week, n)
}
