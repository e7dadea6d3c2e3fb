// Package pipeline runs one discovery-and-generation pass: enumerate
// regions, collect and filter instances, then write the artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vietdv277/ec2hosts/internal/artifact"
	"github.com/vietdv277/ec2hosts/internal/inventory"
	"github.com/vietdv277/ec2hosts/pkg/provider"
	"github.com/vietdv277/ec2hosts/pkg/types"
)

// ErrEnumerate is returned when the region list cannot be fetched
var ErrEnumerate = errors.New("failed to enumerate regions")

// Messages logged at the end of a run
const (
	MsgNoRunning = "No running instances found. Files will not be generated."
	MsgGenerated = "The hosts.ini, connection_helper, ssh_config files have been successfully generated."
)

// Settings holds everything a run needs besides its collaborators
type Settings struct {
	KeyPath       string
	SSHUser       string
	Destinations  artifact.Destinations
	Regions       []string // restricts enumerated regions when non-empty
	RegionTimeout time.Duration
	Concurrency   int
}

// Hooks receives run milestones. All fields are optional.
type Hooks struct {
	Eligible  func(n int)
	Artifacts func(results []artifact.Result)
}

// Report describes the outcome of a run
type Report struct {
	Regions    []string
	Discovered []types.InstanceRecord
	Eligible   []types.InstanceRecord
	Failures   []inventory.RegionFailure
	Artifacts  []artifact.Result
	NoRunning  bool
}

// Err joins region and artifact failures. The run itself still completed.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	for _, a := range r.Artifacts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errors.Join(errs...)
}

// Driver sequences region enumeration, aggregation and generation
type Driver struct {
	settings Settings
	provider provider.InventoryProvider
	observer inventory.Observer
	logger   zerolog.Logger
	hooks    Hooks
}

// Option customizes a Driver
type Option func(*Driver)

// WithObserver sets the discovery observer
func WithObserver(o inventory.Observer) Option {
	return func(d *Driver) {
		d.observer = o
	}
}

// WithLogger sets the run logger
func WithLogger(l zerolog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithHooks sets the milestone hooks
func WithHooks(h Hooks) Option {
	return func(d *Driver) {
		d.hooks = h
	}
}

// NewDriver creates a Driver
func NewDriver(settings Settings, p provider.InventoryProvider, opts ...Option) *Driver {
	d := &Driver{
		settings: settings,
		provider: p,
		observer: inventory.NopObserver{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.settings.KeyPath == "" {
		d.settings.KeyPath = artifact.DefaultKeyPath
	}
	if d.settings.SSHUser == "" {
		d.settings.SSHUser = artifact.DefaultUser
	}
	if d.settings.RegionTimeout <= 0 {
		d.settings.RegionTimeout = inventory.DefaultRegionTimeout
	}

	return d
}

// Discover enumerates regions and aggregates their instances without
// writing anything
func (d *Driver) Discover(ctx context.Context) (*Report, error) {
	regions, err := d.provider.ListRegions(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("region enumeration failed")
		return nil, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}

	enumerated := len(regions)
	regions = restrict(regions, d.settings.Regions)
	if len(d.settings.Regions) > 0 && len(regions) == 0 {
		d.logger.Warn().
			Strs("allow", d.settings.Regions).
			Int("enumerated", enumerated).
			Msg("region allow-list matched no enumerated region")
	}
	d.logger.Debug().Int("regions", len(regions)).Msg("regions enumerated")

	collector := inventory.NewCollector(d.provider, d.observer)
	collector.Timeout = d.settings.RegionTimeout

	aggregator := inventory.NewAggregator(collector)
	aggregator.Concurrency = d.settings.Concurrency

	result := aggregator.Aggregate(ctx, regions)

	for _, f := range result.Failures {
		d.logger.Warn().Err(f.Err).Str("region", f.Region).Msg("region skipped")
	}

	report := &Report{
		Regions:    regions,
		Discovered: result.Discovered,
		Eligible:   result.Eligible,
		Failures:   result.Failures,
	}
	if d.hooks.Eligible != nil {
		d.hooks.Eligible(len(report.Eligible))
	}

	return report, nil
}

// Run performs a full pass. The only error it returns is a failed region
// enumeration; per-region and per-artifact failures are in the Report.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report, err := d.Discover(ctx)
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Int("regions", len(report.Regions)).
		Int("discovered", len(report.Discovered)).
		Int("eligible", len(report.Eligible)).
		Int("failed_regions", len(report.Failures)).
		Msg("discovery complete")

	if len(report.Eligible) == 0 {
		report.NoRunning = true
		d.logger.Info().Msg(MsgNoRunning)
		return report, nil
	}

	set := artifact.Generate(report.Eligible, d.settings.KeyPath, d.settings.SSHUser)
	report.Artifacts = artifact.NewWriter(d.settings.Destinations).Write(set)

	if d.hooks.Artifacts != nil {
		d.hooks.Artifacts(report.Artifacts)
	}

	failed := false
	for _, res := range report.Artifacts {
		if res.Err != nil {
			failed = true
			d.logger.Error().Err(res.Err).Str("artifact", string(res.Kind)).Str("path", res.Path).Msg("artifact not written")
		}
	}
	if !failed {
		d.logger.Info().Msg(MsgGenerated)
	}

	return report, nil
}

// restrict keeps the regions present in allow, preserving order. An empty
// allow list keeps everything.
func restrict(regions, allow []string) []string {
	if len(allow) == 0 {
		return regions
	}

	allowed := make(map[string]bool, len(allow))
	for _, r := range allow {
		allowed[r] = true
	}

	var kept []string
	for _, r := range regions {
		if allowed[r] {
			kept = append(kept, r)
		}
	}
	return kept
}
