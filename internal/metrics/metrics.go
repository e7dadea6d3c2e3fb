// Package metrics records discovery results in Prometheus text format, for
// node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vietdv277/ec2hosts/internal/artifact"
	"github.com/vietdv277/ec2hosts/pkg/types"
)

// Recorder collects run metrics. It implements inventory.Observer.
type Recorder struct {
	registry *prometheus.Registry

	instances      *prometheus.GaugeVec
	regionFailures *prometheus.GaugeVec
	eligible       prometheus.Gauge
	writeFailures  prometheus.Gauge
	lastRun        prometheus.Gauge
	duration       prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		instances: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ec2hosts_instances",
			Help: "Instances discovered in the last run, by region and status.",
		}, []string{"region", "status"}),
		regionFailures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ec2hosts_region_failures",
			Help: "1 if the region could not be listed in the last run.",
		}, []string{"region"}),
		eligible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ec2hosts_eligible_instances",
			Help: "Running instances with a usable address in the last run.",
		}),
		writeFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ec2hosts_artifact_write_failures",
			Help: "Artifacts that failed to write in the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ec2hosts_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ec2hosts_last_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
	}

	r.registry.MustRegister(r.instances, r.regionFailures, r.eligible, r.writeFailures, r.lastRun, r.duration)
	return r
}

func (r *Recorder) RegionQueried(region string) {
	r.regionFailures.WithLabelValues(region).Set(0)
}

func (r *Recorder) InstanceDiscovered(rec types.InstanceRecord) {
	r.instances.WithLabelValues(rec.Region, string(rec.Status)).Inc()
}

func (r *Recorder) RegionFailed(region string, _ error) {
	r.regionFailures.WithLabelValues(region).Set(1)
}

// SetEligible records the size of the eligible set
func (r *Recorder) SetEligible(n int) {
	r.eligible.Set(float64(n))
}

// ObserveArtifacts records artifact write failures
func (r *Recorder) ObserveArtifacts(results []artifact.Result) {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	r.writeFailures.Set(float64(failed))
}

// Finish stamps the run end time and duration
func (r *Recorder) Finish(started time.Time) {
	now := time.Now()
	r.lastRun.Set(float64(now.Unix()))
	r.duration.Set(now.Sub(started).Seconds())
}

// WriteFile writes all metrics to path atomically
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
