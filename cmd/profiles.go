package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/ec2hosts/internal/aws"
	"github.com/vietdv277/ec2hosts/internal/config"
	"github.com/vietdv277/ec2hosts/internal/ui"
)

var profilesCmd = &cobra.Command{
	Use:     "profiles",
	Aliases: []string{"profile"},
	Short:   "Manage the AWS profile used for discovery",
	Long: `Manage the AWS profile stored in the configuration file.

When run without subcommands, shows an interactive selector to choose a profile.

Examples:
  ec2hosts profiles                  # Interactive profile selector
  ec2hosts profiles ls               # List all available profiles
  ec2hosts profiles set production   # Set a specific profile`,
	RunE: runProfileInteractive,
}

var profilesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available AWS profiles",
	Long: `List all available AWS profiles from ~/.aws/credentials and ~/.aws/config.

Examples:
  ec2hosts profiles ls`,
	RunE: runProfileList,
}

var profilesSetCmd = &cobra.Command{
	Use:   "set <profile-name>",
	Short: "Set the AWS profile in the configuration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSet,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesLsCmd)
	profilesCmd.AddCommand(profilesSetCmd)
}

// activeProfile returns the profile a discovery run would use
func activeProfile() string {
	cfg, _ := loadConfig()
	return cfg.AWSProfile
}

func runProfileInteractive(cmd *cobra.Command, args []string) error {
	profiles, err := aws.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No AWS profiles found")
		fmt.Fprintln(out, "Create profiles in ~/.aws/credentials or ~/.aws/config")
		return nil
	}

	selected, err := ui.SelectProfile(profiles, activeProfile())
	if err != nil {
		return err
	}
	if selected == nil {
		return nil
	}

	return saveProfile(cmd, selected.Name)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	profiles, err := aws.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No AWS profiles found")
		fmt.Fprintln(out, "Create profiles in ~/.aws/credentials or ~/.aws/config")
		return nil
	}

	ui.PrintProfiles(out, profiles, activeProfile())
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !aws.ValidateProfile(name) {
		return fmt.Errorf("profile %q not found", name)
	}
	return saveProfile(cmd, name)
}

func saveProfile(cmd *cobra.Command, name string) error {
	if err := config.SetProfile(cfgFile, name); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nProfile set to: %s\n", name)
	fmt.Fprintf(out, "Saved to: %s\n", cfgFile)
	return nil
}
