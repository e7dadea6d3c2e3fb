package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/ec2hosts/internal/config"
)

var (
	// Global flags
	cfgFile string
	profile string
	region  string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "ec2hosts",
	Short: "Generate Ansible inventory and SSH config from running EC2 instances",
	Long: `ec2hosts discovers EC2 instances in every region of the account and writes:

  files/hosts.ini            Ansible inventory of running instances
  files/connection_helper    one "ssh -i KEY ec2-user@HOST" line per instance
  ~/.ssh/config              a Host block per instance (public address, else private)

Running ec2hosts without a subcommand is the same as "ec2hosts generate".

Examples:
  ec2hosts                          # Discover and write all artifacts
  ec2hosts --profile prod           # Use a specific AWS profile
  ec2hosts ls --all                 # Show every instance, write nothing
  ec2hosts regions                  # List the account's regions
  ec2hosts status                   # Show profile and caller identity`,
	SilenceUsage: true,
	RunE:         runGenerate,
}

// Execute runs the root command.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "configuration file")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "region used to list the account's regions")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	bindPersistentFlags()
}

// bindPersistentFlags binds the global flags to viper
func bindPersistentFlags() {
	_ = viper.BindPFlag("aws_profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("query_region", rootCmd.PersistentFlags().Lookup("region"))
}

func initConfig() {
	// EC2HOSTS_KEY_PATH, EC2HOSTS_AWS_PROFILE, ...
	viper.SetEnvPrefix("EC2HOSTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the configuration file and applies flag and environment
// overrides. A broken file degrades to defaults; the error is returned for
// logging alongside a usable config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)

	if viper.IsSet("key_path") {
		cfg.KeyPath = viper.GetString("key_path")
	}
	if viper.IsSet("ssh_user") {
		cfg.SSHUser = viper.GetString("ssh_user")
	}
	if viper.IsSet("query_region") {
		cfg.QueryRegion = viper.GetString("query_region")
	}
	if viper.IsSet("regions") {
		cfg.Regions = splitList(viper.GetStringSlice("regions"))
	}
	if viper.IsSet("region_timeout") {
		cfg.RegionTimeout = config.Duration(viper.GetDuration("region_timeout"))
	}
	if viper.IsSet("concurrency") {
		cfg.Concurrency = viper.GetInt("concurrency")
	}
	if viper.IsSet("metrics_file") {
		cfg.MetricsFile = viper.GetString("metrics_file")
	}
	if viper.IsSet("log_dir") {
		cfg.LogDir = viper.GetString("log_dir")
	}

	// Priority for profile: --profile flag > EC2HOSTS_AWS_PROFILE > config file > AWS_PROFILE env
	if viper.IsSet("aws_profile") {
		cfg.AWSProfile = viper.GetString("aws_profile")
	} else if cfg.AWSProfile == "" {
		cfg.AWSProfile = os.Getenv("AWS_PROFILE")
	}

	return cfg, err
}

// splitList flattens comma separated entries. Environment values arrive as a
// single string, so "eu-west-3,us-east-1" must become two regions.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
