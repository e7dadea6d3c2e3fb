package logging

import (
	"github.com/rs/zerolog"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

// StatusObserver writes one status-log entry per discovered instance and
// region events to the main log
type StatusObserver struct {
	Main   *zerolog.Logger
	Status *zerolog.Logger
}

// NewStatusObserver creates an observer bound to l
func NewStatusObserver(l *Logs) *StatusObserver {
	return &StatusObserver{Main: &l.Main, Status: &l.Status}
}

func (o *StatusObserver) RegionQueried(region string) {
	o.Main.Debug().Str("region", region).Msg("querying region")
}

func (o *StatusObserver) InstanceDiscovered(rec types.InstanceRecord) {
	o.Status.Info().
		Str("name", rec.Name).
		Str("status", string(rec.Status)).
		Str("eligibility", string(rec.EligibilityStatus)).
		Str("region", rec.Region).
		Str("instance_id", rec.ID).
		Str("address", rec.Address.Host()).
		Str("address_kind", rec.Address.Kind.String()).
		Str("instance_type", rec.InstanceType).
		Msg("machine status")
}

func (o *StatusObserver) RegionFailed(region string, err error) {
	o.Main.Warn().Err(err).Str("region", region).Msg("region query failed")
}
