package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetConfig gives each test a fresh viper instance and config file path
func resetConfig(t *testing.T, content string) {
	t.Helper()

	previous := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "config.yml")
	if content != "" {
		require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))
	}

	viper.Reset()
	initConfig()
	bindPersistentFlags()

	t.Cleanup(func() {
		cfgFile = previous
		viper.Reset()
	})
}

// generateFlags returns a command carrying the generate flags, bound to viper
func generateFlags(t *testing.T) *cobra.Command {
	t.Helper()

	c := &cobra.Command{Use: "test"}
	c.Flags().String("key-path", "", "")
	c.Flags().StringSlice("regions", nil, "")
	c.Flags().Duration("region-timeout", 0, "")
	c.Flags().String("profile", "", "")
	bindFlags(c)
	require.NoError(t, viper.BindPFlag("aws_profile", c.Flags().Lookup("profile")))
	return c
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetConfig(t, "")
	t.Setenv("AWS_PROFILE", "")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, ".ssh/aws.pem", cfg.KeyPath)
	assert.Equal(t, "eu-west-3", cfg.QueryRegion)
	assert.Empty(t, cfg.Regions)
	assert.Empty(t, cfg.AWSProfile)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	resetConfig(t, "key_path: /file.pem\nregions: [eu-west-3]\n")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "/file.pem", cfg.KeyPath)
	assert.Equal(t, []string{"eu-west-3"}, cfg.Regions)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	resetConfig(t, "key_path: /file.pem\nregions: [eu-west-3]\n")
	t.Setenv("EC2HOSTS_KEY_PATH", "/env.pem")
	t.Setenv("EC2HOSTS_REGIONS", "eu-west-3,us-east-1")
	t.Setenv("EC2HOSTS_REGION_TIMEOUT", "5s")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "/env.pem", cfg.KeyPath)
	assert.Equal(t, []string{"eu-west-3", "us-east-1"}, cfg.Regions)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.RegionTimeout))
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	resetConfig(t, "key_path: /file.pem\n")
	t.Setenv("EC2HOSTS_KEY_PATH", "/env.pem")
	t.Setenv("EC2HOSTS_REGIONS", "us-east-1")
	c := generateFlags(t)
	require.NoError(t, c.Flags().Set("key-path", "/flag.pem"))
	require.NoError(t, c.Flags().Set("regions", "ap-south-1,sa-east-1"))

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "/flag.pem", cfg.KeyPath)
	assert.Equal(t, []string{"ap-south-1", "sa-east-1"}, cfg.Regions)
}

func TestLoadConfig_ProfilePrecedence(t *testing.T) {
	t.Run("AWS_PROFILE when nothing else is set", func(t *testing.T) {
		resetConfig(t, "")
		t.Setenv("AWS_PROFILE", "legacy")

		cfg, err := loadConfig()

		require.NoError(t, err)
		assert.Equal(t, "legacy", cfg.AWSProfile)
	})

	t.Run("file beats AWS_PROFILE", func(t *testing.T) {
		resetConfig(t, "aws_profile: from-file\n")
		t.Setenv("AWS_PROFILE", "legacy")

		cfg, err := loadConfig()

		require.NoError(t, err)
		assert.Equal(t, "from-file", cfg.AWSProfile)
	})

	t.Run("env beats file", func(t *testing.T) {
		resetConfig(t, "aws_profile: from-file\n")
		t.Setenv("EC2HOSTS_AWS_PROFILE", "from-env")

		cfg, err := loadConfig()

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.AWSProfile)
	})

	t.Run("flag beats env", func(t *testing.T) {
		resetConfig(t, "aws_profile: from-file\n")
		t.Setenv("EC2HOSTS_AWS_PROFILE", "from-env")
		c := generateFlags(t)
		require.NoError(t, c.Flags().Set("profile", "from-flag"))

		cfg, err := loadConfig()

		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.AWSProfile)
	})
}

func TestLoadConfig_MalformedFileKeepsOverrides(t *testing.T) {
	resetConfig(t, "key_path: [broken\n")
	t.Setenv("EC2HOSTS_SSH_USER", "ubuntu")

	cfg, err := loadConfig()

	require.Error(t, err)
	assert.Equal(t, ".ssh/aws.pem", cfg.KeyPath)
	assert.Equal(t, "ubuntu", cfg.SSHUser)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "", "c,"}))
	assert.Nil(t, splitList(nil))
}
