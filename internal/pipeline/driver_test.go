package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/ec2hosts/internal/artifact"
	"github.com/vietdv277/ec2hosts/pkg/provider"
	"github.com/vietdv277/ec2hosts/pkg/types"
)

// mockProvider implements provider.InventoryProvider for testing.
type mockProvider struct {
	regions    []string
	regionsErr error
	instances  map[string][]types.RawInstance
	errs       map[string]error
}

func (m *mockProvider) ListRegions(_ context.Context) ([]string, error) {
	return m.regions, m.regionsErr
}

func (m *mockProvider) ListInstances(_ context.Context, region string) ([]types.RawInstance, error) {
	if err := m.errs[region]; err != nil {
		return nil, err
	}
	return m.instances[region], nil
}

func instance(name, state, public, private string) types.RawInstance {
	return types.RawInstance{
		ID:        "i-" + name,
		State:     state,
		Tags:      []types.Tag{{Key: "Name", Value: name}},
		PublicIP:  public,
		PrivateIP: private,
	}
}

func testSettings(t *testing.T) Settings {
	dir := t.TempDir()
	return Settings{
		KeyPath: ".ssh/aws.pem",
		Destinations: artifact.Destinations{
			Inventory:        filepath.Join(dir, "files", "hosts.ini"),
			ConnectionHelper: filepath.Join(dir, "files", "connection_helper"),
			SSHConfig:        filepath.Join(dir, "ssh", "config"),
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_Example(t *testing.T) {
	p := &mockProvider{
		regions: []string{"us-east", "eu-west"},
		instances: map[string][]types.RawInstance{
			"us-east": {instance("web-1", "running", "1.2.3.4", "10.0.0.4")},
			"eu-west": {instance("db-1", "running", "", "10.0.0.5")},
		},
	}
	settings := testSettings(t)

	report, err := NewDriver(settings, p).Run(context.Background())

	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.False(t, report.NoRunning)
	assert.Len(t, report.Eligible, 2)

	inventory := readFile(t, settings.Destinations.Inventory)
	assert.Contains(t, inventory, "web-1 ansible_host=1.2.3.4 ansible_ssh_private_key_file=.ssh/aws.pem\n")
	assert.Contains(t, inventory, "db-1 ansible_host= ansible_ssh_private_key_file=.ssh/aws.pem\n")

	helper := readFile(t, settings.Destinations.ConnectionHelper)
	assert.Contains(t, helper, "ssh -i \".ssh/aws.pem\" ec2-user@1.2.3.4\n")
	assert.Contains(t, helper, "ssh -i \".ssh/aws.pem\" ec2-user@\n")

	sshConfig := readFile(t, settings.Destinations.SSHConfig)
	assert.Contains(t, sshConfig, "\nHost db-1\n  HostName 10.0.0.5\n  User ec2-user\n  IdentityFile .ssh/aws.pem\n")
	assert.Contains(t, sshConfig, "\nHost web-1\n  HostName 1.2.3.4\n")
}

func TestRun_NoRunningInstancesWritesNothing(t *testing.T) {
	p := &mockProvider{
		regions: []string{"us-east"},
		instances: map[string][]types.RawInstance{
			"us-east": {
				instance("old", "stopped", "1.2.3.4", ""),
				instance("ghost", "running", "", ""),
			},
		},
	}
	settings := testSettings(t)
	var logs bytes.Buffer

	report, err := NewDriver(settings, p, WithLogger(zerolog.New(&logs))).Run(context.Background())

	require.NoError(t, err)
	assert.True(t, report.NoRunning)
	assert.Empty(t, report.Artifacts)
	assert.Len(t, report.Discovered, 2)
	assert.Equal(t, 1, strings.Count(logs.String(), MsgNoRunning))

	for _, path := range []string{settings.Destinations.Inventory, settings.Destinations.ConnectionHelper, settings.Destinations.SSHConfig} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s should not exist", path)
	}
}

func TestRun_AddresslessInstanceInNoArtifact(t *testing.T) {
	p := &mockProvider{
		regions: []string{"r"},
		instances: map[string][]types.RawInstance{
			"r": {
				instance("web-1", "running", "1.2.3.4", ""),
				instance("ghost", "running", "", ""),
			},
		},
	}
	settings := testSettings(t)

	report, err := NewDriver(settings, p).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, report.Discovered, 2)
	for _, path := range []string{settings.Destinations.Inventory, settings.Destinations.ConnectionHelper, settings.Destinations.SSHConfig} {
		assert.NotContains(t, readFile(t, path), "ghost")
	}
}

func TestRun_RegionFailureKeepsOtherRegions(t *testing.T) {
	boom := errors.New("RequestExpired")
	p := &mockProvider{
		regions: []string{"a", "b", "c"},
		instances: map[string][]types.RawInstance{
			"a": {instance("a-1", "running", "1.1.1.1", "")},
			"c": {instance("c-1", "running", "3.3.3.3", "")},
		},
		errs: map[string]error{"b": boom},
	}
	settings := testSettings(t)

	report, err := NewDriver(settings, p).Run(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Err(), boom)

	inventory := readFile(t, settings.Destinations.Inventory)
	assert.Contains(t, inventory, "a-1 ")
	assert.Contains(t, inventory, "c-1 ")
}

func TestRun_EnumerationFailureAborts(t *testing.T) {
	p := &mockProvider{regionsErr: provider.ErrAuthFailed}
	settings := testSettings(t)

	report, err := NewDriver(settings, p).Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrEnumerate)
	assert.ErrorIs(t, err, provider.ErrAuthFailed)

	_, statErr := os.Stat(settings.Destinations.Inventory)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_ArtifactFailureIsReported(t *testing.T) {
	p := &mockProvider{
		regions:   []string{"r"},
		instances: map[string][]types.RawInstance{"r": {instance("web-1", "running", "1.2.3.4", "")}},
	}
	settings := testSettings(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	settings.Destinations.SSHConfig = filepath.Join(blocker, "config")

	var hooked []artifact.Result
	report, err := NewDriver(settings, p, WithHooks(Hooks{Artifacts: func(r []artifact.Result) { hooked = r }})).Run(context.Background())

	require.NoError(t, err)
	require.Error(t, report.Err())
	assert.Len(t, hooked, 3)
	assert.Contains(t, readFile(t, settings.Destinations.Inventory), "web-1")
}

func TestRun_RegionAllowList(t *testing.T) {
	p := &mockProvider{
		regions: []string{"a", "b"},
		instances: map[string][]types.RawInstance{
			"a": {instance("a-1", "running", "1.1.1.1", "")},
			"b": {instance("b-1", "running", "2.2.2.2", "")},
		},
	}
	settings := testSettings(t)
	settings.Regions = []string{"b", "zz"}

	report, err := NewDriver(settings, p).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, report.Regions)
	require.Len(t, report.Eligible, 1)
	assert.Equal(t, "b-1", report.Eligible[0].Name)
}

func TestDiscover_IsIdempotent(t *testing.T) {
	p := &mockProvider{
		regions: []string{"a", "b"},
		instances: map[string][]types.RawInstance{
			"a": {instance("z", "running", "1.1.1.1", ""), instance("y", "stopped", "", "10.0.0.1")},
			"b": {instance("x", "running", "", "10.0.0.2")},
		},
	}
	var eligibleCounts []int
	d := NewDriver(testSettings(t), p, WithHooks(Hooks{Eligible: func(n int) { eligibleCounts = append(eligibleCounts, n) }}))

	first, err := d.Discover(context.Background())
	require.NoError(t, err)
	p.regions = []string{"b", "a"}
	second, err := d.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Eligible, second.Eligible)
	assert.Equal(t, []int{2, 2}, eligibleCounts)
}

func TestDiscover_AllowListMatchingNothingWarns(t *testing.T) {
	p := &mockProvider{
		regions:   []string{"eu-west-3", "us-east-1"},
		instances: map[string][]types.RawInstance{"eu-west-3": {instance("a-1", "running", "1.1.1.1", "")}},
	}
	settings := testSettings(t)
	settings.Regions = []string{"eu-west-3,us-east-1"}
	var logs bytes.Buffer

	report, err := NewDriver(settings, p, WithLogger(zerolog.New(&logs))).Discover(context.Background())

	require.NoError(t, err)
	assert.Empty(t, report.Regions)
	assert.Contains(t, logs.String(), "region allow-list matched no enumerated region")
	assert.Contains(t, logs.String(), `"level":"warn"`)
}
