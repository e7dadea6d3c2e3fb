package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

func readLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestStatusObserver_WritesOneEntryPerInstance(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logs, err := New(Options{Dir: dir, Console: &console})
	require.NoError(t, err)
	defer logs.Close()
	logs.WithIdentity("arn:aws:iam::123456789012:user/ops")

	obs := NewStatusObserver(logs)
	obs.InstanceDiscovered(types.InstanceRecord{Name: "web-1", Status: types.StatusRunning, Region: "eu-west-3", Address: types.PublicAddress("1.2.3.4")})
	obs.InstanceDiscovered(types.InstanceRecord{Name: "ghost", Status: types.StatusStopped, Region: "us-east-1", Address: types.NoAddress()})
	obs.InstanceDiscovered(types.InstanceRecord{
		Name:              "db-1",
		Status:            types.StatusRunning,
		EligibilityStatus: types.StatusNoPublicDNS,
		Region:            "eu-west-3",
		Address:           types.PrivateAddress("10.0.0.5"),
	})
	obs.RegionFailed("ap-east-1", errors.New("OptInRequired"))
	require.NoError(t, logs.Close())

	status := readLines(t, filepath.Join(dir, StatusLogFile))
	require.Len(t, status, 3)
	assert.Equal(t, "web-1", status[0]["name"])
	assert.Equal(t, "running", status[0]["status"])
	assert.Equal(t, "eu-west-3", status[0]["region"])
	assert.Equal(t, "none", status[1]["address_kind"])
	assert.Equal(t, "running", status[2]["status"])
	assert.Equal(t, "NoPublicDns", status[2]["eligibility"])
	assert.Equal(t, "private", status[2]["address_kind"])
	assert.Equal(t, "10.0.0.5", status[2]["address"])
	assert.NotEmpty(t, status[0]["time"])
	assert.NotEmpty(t, status[0]["user"])
	assert.Equal(t, "arn:aws:iam::123456789012:user/ops", status[0]["aws_identity"])

	main := readLines(t, filepath.Join(dir, MainLogFile))
	require.Len(t, main, 1)
	assert.Equal(t, "ap-east-1", main[0]["region"])
	assert.Equal(t, "warn", main[0]["level"])

	assert.Contains(t, console.String(), "region query failed")
}

func TestNew_FallsBackWhenDirUnusable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	var console bytes.Buffer

	logs, err := New(Options{Dir: filepath.Join(blocker, "logs"), Console: &console})

	require.Error(t, err)
	require.NotNil(t, logs)
	logs.Main.Info().Msg("still logging")
	assert.Contains(t, console.String(), "still logging")
}

func TestInvoker(t *testing.T) {
	assert.NotEmpty(t, Invoker())
}
