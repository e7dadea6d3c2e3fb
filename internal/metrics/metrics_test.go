package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/ec2hosts/internal/artifact"
	"github.com/vietdv277/ec2hosts/pkg/types"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.RegionQueried("eu-west-3")
	r.InstanceDiscovered(types.InstanceRecord{Region: "eu-west-3", Status: types.StatusRunning})
	r.InstanceDiscovered(types.InstanceRecord{Region: "eu-west-3", Status: types.StatusRunning})
	r.InstanceDiscovered(types.InstanceRecord{Region: "eu-west-3", Status: types.StatusStopped})
	r.RegionQueried("ap-east-1")
	r.RegionFailed("ap-east-1", errors.New("timeout"))
	r.SetEligible(2)
	r.ObserveArtifacts([]artifact.Result{{Kind: artifact.KindInventory}, {Kind: artifact.KindSSHConfig, Err: errors.New("denied")}})
	r.Finish(time.Now().Add(-time.Second))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.instances.WithLabelValues("eu-west-3", "running")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.instances.WithLabelValues("eu-west-3", "stopped")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.regionFailures.WithLabelValues("eu-west-3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.regionFailures.WithLabelValues("ap-east-1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.eligible))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.writeFailures))
	assert.GreaterOrEqual(t, testutil.ToFloat64(r.duration), 1.0)
}

func TestRecorder_WriteFile(t *testing.T) {
	r := NewRecorder()
	r.SetEligible(3)
	path := filepath.Join(t.TempDir(), "ec2hosts.prom")

	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ec2hosts_eligible_instances 3")
}
