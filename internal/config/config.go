// Package config loads the optional tool configuration. The file is HCL
// by default, JSON when the extension is .json; a missing file yields the
// defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"grimm.is/vpcctl/internal/brand"
)

// Config is the top-level tool configuration.
type Config struct {
	StateDir        string `hcl:"state_dir,optional" json:"state_dir,omitempty"`
	OpTimeout       string `hcl:"op_timeout,optional" json:"op_timeout,omitempty"`
	MetricsTextfile string `hcl:"metrics_textfile,optional" json:"metrics_textfile,omitempty"`

	Log   *LogConfig   `hcl:"log,block" json:"log,omitempty"`
	NAT   *NATConfig   `hcl:"nat,block" json:"nat,omitempty"`
	Audit *AuditConfig `hcl:"audit,block" json:"audit,omitempty"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `hcl:"level,optional" json:"level,omitempty"` // debug, info, warn, error
	JSON  bool   `hcl:"json,optional" json:"json,omitempty"`
	File  string `hcl:"file,optional" json:"file,omitempty"`
}

// NATConfig holds NAT defaults.
type NATConfig struct {
	HostInterface string `hcl:"host_interface,optional" json:"host_interface,omitempty"`
}

// AuditConfig controls the operation audit log.
type AuditConfig struct {
	Path          string `hcl:"path,optional" json:"path,omitempty"`
	RetentionDays int    `hcl:"retention_days,optional" json:"retention_days,omitempty"`
	Disabled      bool   `hcl:"disabled,optional" json:"disabled,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StateDir:  filepath.Join(brand.GetStateDir(), "vpcs"),
		OpTimeout: "30s",
		Log:       &LogConfig{Level: "info"},
		NAT:       &NATConfig{HostInterface: "eth0"},
		Audit: &AuditConfig{
			Path:          filepath.Join(brand.GetStateDir(), "audit.db"),
			RetentionDays: 90,
		},
	}
}

// Load reads the config file at path and merges it over the defaults.
// A missing file is not an error when the path is the built-in default.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if path == brand.DefaultConfigFile() {
			return cfg, nil
		}
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	loaded := &Config{}
	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(data, loaded); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else {
		if err := hclsimple.DecodeFile(path, nil, loaded); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.merge(loaded)
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBytes parses config content directly (tests).
func LoadBytes(filename string, data []byte) (*Config, error) {
	cfg := Default()
	loaded := &Config{}
	if strings.HasSuffix(filename, ".json") {
		if err := json.Unmarshal(data, loaded); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", filename, err)
		}
	} else {
		if err := hclsimple.Decode(filename, data, nil, loaded); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", filename, err)
		}
	}
	cfg.merge(loaded)
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if o.StateDir != "" {
		c.StateDir = o.StateDir
	}
	if o.OpTimeout != "" {
		c.OpTimeout = o.OpTimeout
	}
	if o.MetricsTextfile != "" {
		c.MetricsTextfile = o.MetricsTextfile
	}
	if o.Log != nil {
		if o.Log.Level != "" {
			c.Log.Level = o.Log.Level
		}
		c.Log.JSON = o.Log.JSON
		if o.Log.File != "" {
			c.Log.File = o.Log.File
		}
	}
	if o.NAT != nil && o.NAT.HostInterface != "" {
		c.NAT.HostInterface = o.NAT.HostInterface
	}
	if o.Audit != nil {
		if o.Audit.Path != "" {
			c.Audit.Path = o.Audit.Path
		}
		if o.Audit.RetentionDays != 0 {
			c.Audit.RetentionDays = o.Audit.RetentionDays
		}
		c.Audit.Disabled = o.Audit.Disabled
	}
}

// Timeout parses the per-operation timeout.
func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.OpTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid op_timeout %q: %w", c.OpTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid op_timeout %q: must be positive", c.OpTimeout)
	}
	return d, nil
}
