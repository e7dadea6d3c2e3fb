package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietdv277/ec2hosts/internal/aws"
	"github.com/vietdv277/ec2hosts/internal/config"
	"github.com/vietdv277/ec2hosts/internal/logging"
	"github.com/vietdv277/ec2hosts/internal/pipeline"
	"github.com/vietdv277/ec2hosts/pkg/provider"
)

// session bundles what every AWS-backed command needs
type session struct {
	cfg      *config.Config
	logs     *logging.Logs
	client   *aws.Client
	identity provider.IdentityProvider
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, cfgErr := loadConfig()

	logs, logErr := logging.New(logging.Options{
		Dir:     cfg.LogDir,
		Console: cmd.ErrOrStderr(),
		Debug:   debug,
	})
	if logErr != nil {
		logs.Main.Warn().Err(logErr).Msg("file logging disabled")
	}
	if cfgErr != nil {
		logs.Main.Warn().Err(cfgErr).Str("key_path", cfg.KeyPath).Msg("using default configuration")
	}

	if cfg.AWSProfile != "" && !aws.ValidateProfile(cfg.AWSProfile) {
		logs.Main.Warn().Str("profile", cfg.AWSProfile).Msg("profile not found in ~/.aws/config or ~/.aws/credentials")
	}

	client, err := aws.NewClient(
		cmd.Context(),
		aws.WithProfile(cfg.AWSProfile),
		aws.WithRegion(cfg.QueryRegion),
		aws.WithRetryMaxAttempts(cfg.RetryAttempts),
	)
	if err != nil {
		logs.Main.Error().Err(err).Msg("failed to create AWS client")
		logs.Close()
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}

	return &session{cfg: cfg, logs: logs, client: client, identity: client}, nil
}

// identify tags later log entries with the caller's ARN. Failure only warns:
// the listing calls will surface real auth problems.
func (s *session) identify(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	id, err := s.identity.CallerIdentity(ctx)
	if err != nil {
		s.logs.Main.Warn().Err(err).Msg("could not resolve caller identity")
		return
	}
	s.logs.WithIdentity(id.Arn)
}

func (s *session) settings() pipeline.Settings {
	return pipeline.Settings{
		KeyPath:       s.cfg.KeyPath,
		SSHUser:       s.cfg.SSHUser,
		Destinations:  s.cfg.Destinations(),
		Regions:       s.cfg.Regions,
		RegionTimeout: time.Duration(s.cfg.RegionTimeout),
		Concurrency:   s.cfg.Concurrency,
	}
}

func (s *session) Close() {
	_ = s.logs.Close()
}
