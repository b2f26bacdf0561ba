package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	str2duration "github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"

	"github.com/Turgon37/LiveboxTools/str"
)

// Config is the YAML configuration file (~/.livebox.yaml by default).
type Config struct {
	Protocol string           `yaml:"protocol"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Username string           `yaml:"username"`
	Password str.MaskedString `yaml:"password"`
	Timeout  string           `yaml:"timeout"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".livebox.yaml")
}

// loadConfig reads the YAML config file. A missing file yields an empty
// config unless the user named the file explicitly.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// RequestTimeout parses the configured timeout, accepting extended units
// like 1m30s or 2h. Zero means no timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}
