package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietdv277/ec2hosts/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and authentication status",
	Long: `Display the resolved configuration and verify the AWS credentials.

Examples:
  ec2hosts status
  ec2hosts status --profile prod`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	cfg := s.cfg

	fmt.Fprintln(out, "Current Status")
	fmt.Fprintln(out, ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Fprintln(out)

	profileName := s.client.Profile()
	if profileName == "" {
		profileName = ui.MutedStyle.Render("(default)")
	}
	fmt.Fprintf(out, "Config:     %s\n", cfgFile)
	fmt.Fprintf(out, "Profile:    %s\n", profileName)
	fmt.Fprintf(out, "Region:     %s\n", s.client.Region())
	fmt.Fprintf(out, "Key:        %s\n", cfg.KeyPath)
	fmt.Fprintf(out, "User:       %s\n", cfg.SSHUser)
	fmt.Fprintf(out, "Inventory:  %s\n", cfg.HostsFile)
	fmt.Fprintf(out, "Helper:     %s\n", cfg.ConnectionHelperFile)
	fmt.Fprintf(out, "SSH config: %s\n", cfg.SSHConfigPath)
	fmt.Fprintln(out)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	displayAuth(ctx, out, s)

	return nil
}

func displayAuth(ctx context.Context, out io.Writer, s *session) {
	fmt.Fprint(out, "Auth:       ")
	identity, err := s.identity.CallerIdentity(ctx)
	if err != nil {
		fmt.Fprintln(out, ui.StoppedStyle.Render("✗ Not authenticated"))
		fmt.Fprintf(out, "            %s\n", ui.MutedStyle.Render(err.Error()))
		if p := s.client.Profile(); p != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "To authenticate:")
			fmt.Fprintf(out, "  aws sso login --profile %s\n", p)
		}
		return
	}

	fmt.Fprintln(out, ui.RunningStyle.Render("✓ Authenticated"))
	fmt.Fprintf(out, "Account:    %s\n", identity.Account)
	fmt.Fprintf(out, "User ID:    %s\n", identity.UserID)
	if identity.Arn != "" {
		fmt.Fprintf(out, "ARN:        %s\n", ui.MutedStyle.Render(identity.Arn))
	}
}
