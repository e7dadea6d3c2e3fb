package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List the regions available to the account",
	Long: `List the regions returned by DescribeRegions from the query region.

Examples:
  ec2hosts regions
  ec2hosts regions --region us-east-1`,
	RunE: runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	regions, err := s.client.ListRegions(cmd.Context())
	if err != nil {
		s.logs.Main.Error().Err(err).Msg("region enumeration failed")
		return fmt.Errorf("failed to list regions: %w", err)
	}

	for _, r := range regions {
		fmt.Fprintln(cmd.OutOrStdout(), r)
	}
	return nil
}
