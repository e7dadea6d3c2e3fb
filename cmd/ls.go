package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/ec2hosts/internal/inventory"
	"github.com/vietdv277/ec2hosts/internal/pipeline"
	"github.com/vietdv277/ec2hosts/internal/ui"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List instances without writing any file",
	Long: `Discover instances in every region and print them as a table.

By default only the instances that would land in the artifacts are shown.

Examples:
  ec2hosts ls                   # Running instances with an address
  ec2hosts ls --all             # Every discovered instance
  ec2hosts ls --regions us-east-1`,
	RunE: runList,
}

var showAll bool

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVar(&showAll, "all", false, "show all instances including stopped ones and those without address")
	lsCmd.Flags().StringSlice("regions", nil, "only query these regions")
}

func runList(cmd *cobra.Command, args []string) error {
	bindFlags(cmd)

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	s.identify(ctx)

	driver := pipeline.NewDriver(s.settings(), s.client,
		pipeline.WithObserver(inventory.NopObserver{}),
		pipeline.WithLogger(s.logs.Main),
	)

	report, err := driver.Discover(ctx)
	if err != nil {
		return err
	}

	records := report.Eligible
	if showAll {
		records = report.Discovered
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No instances found")
	} else {
		ui.PrintInventoryTable(out, records)
	}

	for _, f := range report.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", ui.StoppedStyle.Render("✗"), f.Region, f.Err)
	}

	return nil
}
