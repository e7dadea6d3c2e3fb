package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/ec2hosts/internal/inventory"
	"github.com/vietdv277/ec2hosts/internal/logging"
	"github.com/vietdv277/ec2hosts/internal/metrics"
	"github.com/vietdv277/ec2hosts/internal/pipeline"
	"github.com/vietdv277/ec2hosts/internal/ui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Discover running instances and write inventory, helper and SSH config",
	Long: `Discover instances in every region and write the artifacts.

Only running instances with a public or private address are included.
When no instance qualifies, no file is touched.

Examples:
  ec2hosts generate
  ec2hosts generate --key-path ~/.ssh/prod.pem
  ec2hosts generate --regions eu-west-3,us-east-1
  ec2hosts generate --metrics-file /var/lib/node_exporter/ec2hosts.prom`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	for _, c := range []*cobra.Command{rootCmd, generateCmd} {
		c.Flags().String("key-path", "", "SSH private key referenced by the artifacts (default .ssh/aws.pem)")
		c.Flags().String("ssh-user", "", "login user written into the artifacts (default ec2-user)")
		c.Flags().StringSlice("regions", nil, "only query these regions")
		c.Flags().Duration("region-timeout", 0, "timeout for a single region (default 30s)")
		c.Flags().Int("concurrency", 0, "regions queried in parallel (0 = all)")
		c.Flags().String("metrics-file", "", "write Prometheus metrics to this file")
		c.Flags().String("log-dir", "", "directory for main_log.log and machine_status.log (default logs)")
	}

}

// flagKeys maps config keys to the local flags that override them
var flagKeys = map[string]string{
	"key_path":       "key-path",
	"ssh_user":       "ssh-user",
	"regions":        "regions",
	"region_timeout": "region-timeout",
	"concurrency":    "concurrency",
	"metrics_file":   "metrics-file",
	"log_dir":        "log-dir",
}

// bindFlags binds the local flags of the invoked command to viper. Several
// commands declare the same flags, so binding happens at run time.
func bindFlags(c *cobra.Command) {
	for key, name := range flagKeys {
		if f := c.Flags().Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	bindFlags(cmd)

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	s.identify(ctx)

	observers := inventory.MultiObserver{
		logging.NewStatusObserver(s.logs),
		ui.NewConsoleObserver(cmd.OutOrStdout()),
	}

	var hooks pipeline.Hooks
	var recorder *metrics.Recorder
	if s.cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder()
		observers = append(observers, recorder)
		hooks.Eligible = recorder.SetEligible
		hooks.Artifacts = recorder.ObserveArtifacts
	}

	driver := pipeline.NewDriver(s.settings(), s.client,
		pipeline.WithObserver(observers),
		pipeline.WithLogger(s.logs.Main),
		pipeline.WithHooks(hooks),
	)

	started := time.Now()
	report, err := driver.Run(ctx)

	if recorder != nil {
		recorder.Finish(started)
		if werr := recorder.WriteFile(s.cfg.MetricsFile); werr != nil {
			s.logs.Main.Warn().Err(werr).Str("path", s.cfg.MetricsFile).Msg("metrics not written")
		}
	}

	if err != nil {
		s.logs.Main.Error().Err(err).Msg("run failed")
		return err
	}

	if !report.NoRunning {
		ui.PrintArtifactResults(cmd.OutOrStdout(), report.Artifacts)
	}

	return nil
}
