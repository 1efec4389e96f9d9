package cli

import (
	"fmt"
	"strings"

	"github.com/rcliao/meeting-planner/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "publisher",
		Short: "Manage registered publishers",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register or update a publisher",
		Args:  cobra.ExactArgs(1),
		Run:   runPublisherAdd,
	}
	add.Flags().String("id", "", "Existing publisher ID to update")
	add.Flags().String("aliases", "", "Alternative names (comma-separated)")
	add.Flags().String("age", model.AgeAdult, "Age group: Adulto, Jovem or Criança")
	add.Flags().String("parents", "", "Parent publisher IDs (comma-separated)")
	add.Flags().Bool("non-parent-ok", false, "Child may pair with a non-parent adult")
	add.Flags().Bool("inactive", false, "Publisher is not currently serving")
	add.Flags().String("availability", model.AvailableAlways, "Availability mode: always or never")
	add.Flags().String("exceptions", "", "Exception dates YYYY-MM-DD (comma-separated)")
	add.Flags().String("phone", "", "Phone number for assignment slips")

	list := &cobra.Command{
		Use:   "list",
		Short: "List publishers",
		Run:   runPublisherList,
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a publisher",
		Args:  cobra.ExactArgs(1),
		Run:   runPublisherRm,
	}

	cmd.AddCommand(add, list, rm)
	RootCmd.AddCommand(cmd)
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func runPublisherAdd(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	aliases, _ := cmd.Flags().GetString("aliases")
	age, _ := cmd.Flags().GetString("age")
	parents, _ := cmd.Flags().GetString("parents")
	nonParentOK, _ := cmd.Flags().GetBool("non-parent-ok")
	inactive, _ := cmd.Flags().GetBool("inactive")
	mode, _ := cmd.Flags().GetString("availability")
	exceptions, _ := cmd.Flags().GetString("exceptions")
	phone, _ := cmd.Flags().GetString("phone")

	serving := !inactive
	p := model.Publisher{
		ID:                   id,
		Name:                 args[0],
		Aliases:              splitList(aliases),
		AgeGroup:             age,
		ParentIDs:            splitList(parents),
		CanPairWithNonParent: nonParentOK,
		IsServing:            &serving,
		Availability:         model.Availability{Mode: mode, ExceptionDates: splitList(exceptions)},
		Phone:                phone,
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	saved, err := s.PutPublisher(cmd.Context(), p)
	if err != nil {
		exitErr("publisher add", err)
	}
	printJSON(saved)
}

func runPublisherList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	publishers, err := s.ListPublishers(cmd.Context())
	if err != nil {
		exitErr("publisher list", err)
	}

	if formatFlag == "text" {
		for _, p := range publishers {
			fmt.Printf("%s\t%s\t%s\n", p.ID, p.Name, p.AgeGroup)
		}
		return
	}
	printJSON(publishers)
}

func runPublisherRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeletePublisher(cmd.Context(), args[0]); err != nil {
		exitErr("publisher rm", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", args[0])
}
