package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vietdv277/ec2hosts/internal/artifact"
	"github.com/vietdv277/ec2hosts/internal/aws"
	"github.com/vietdv277/ec2hosts/internal/inventory"
)

// DefaultPath is where the configuration file is looked up
const DefaultPath = "config/config.yml"

// Config represents the application configuration
type Config struct {
	KeyPath string `yaml:"key_path,omitempty"`
	SSHUser string `yaml:"ssh_user,omitempty"`

	AWSProfile    string   `yaml:"aws_profile,omitempty"`
	QueryRegion   string   `yaml:"query_region,omitempty"`
	Regions       []string `yaml:"regions,omitempty"`
	RegionTimeout Duration `yaml:"region_timeout,omitempty"`
	Concurrency   int      `yaml:"concurrency,omitempty"`
	RetryAttempts int      `yaml:"retry_attempts,omitempty"`

	HostsFile            string `yaml:"hosts_file,omitempty"`
	ConnectionHelperFile string `yaml:"connection_helper_file,omitempty"`
	SSHConfigPath        string `yaml:"ssh_config_path,omitempty"`

	LogDir      string `yaml:"log_dir,omitempty"`
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// Duration is a time.Duration that reads from YAML strings like "30s"
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		KeyPath:              artifact.DefaultKeyPath,
		SSHUser:              artifact.DefaultUser,
		QueryRegion:          aws.DefaultQueryRegion,
		RegionTimeout:        Duration(inventory.DefaultRegionTimeout),
		HostsFile:            artifact.DefaultInventoryPath,
		ConnectionHelperFile: artifact.DefaultConnectionHelperPath,
		SSHConfigPath:        artifact.DefaultSSHConfigPath(),
		LogDir:               "logs",
	}
}

// Load reads the configuration at path. A missing file yields the defaults.
// An unreadable or malformed file yields the defaults together with the
// error, so callers can warn and carry on.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults restores defaults for keys present but left blank
func (c *Config) applyDefaults() {
	d := Default()

	if strings.TrimSpace(c.KeyPath) == "" {
		c.KeyPath = d.KeyPath
	}
	if c.SSHUser == "" {
		c.SSHUser = d.SSHUser
	}
	if c.QueryRegion == "" {
		c.QueryRegion = d.QueryRegion
	}
	if c.RegionTimeout <= 0 {
		c.RegionTimeout = d.RegionTimeout
	}
	if c.HostsFile == "" {
		c.HostsFile = d.HostsFile
	}
	if c.ConnectionHelperFile == "" {
		c.ConnectionHelperFile = d.ConnectionHelperFile
	}
	if c.SSHConfigPath == "" {
		c.SSHConfigPath = d.SSHConfigPath
	}
	c.SSHConfigPath = expandHome(c.SSHConfigPath)
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
}

// Destinations returns the artifact output paths
func (c *Config) Destinations() artifact.Destinations {
	return artifact.Destinations{
		Inventory:        c.HostsFile,
		ConnectionHelper: c.ConnectionHelperFile,
		SSHConfig:        expandHome(c.SSHConfigPath),
	}
}

// Save writes the configuration to path
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetProfile updates the AWS profile stored at path. Only the keys already
// in the file are written back, unexpanded.
func SetProfile(path, profileName string) error {
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.AWSProfile = profileName
	return Save(path, cfg)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
