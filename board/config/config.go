// Package config loads the client's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL         string        `yaml:"base_url"`
	PageSize        int           `yaml:"page_size"`
	ScrollThreshold int           `yaml:"scroll_threshold"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	DataDir         string        `yaml:"data_dir"`

	Mdns MdnsConfig `yaml:"mdns"`
}

type MdnsConfig struct {
	Enabled bool          `yaml:"enabled"`
	Service string        `yaml:"service"`
	Timeout time.Duration `yaml:"timeout"`
}

func Default() Config {
	return Config{
		PageSize:        10,
		ScrollThreshold: 200,
		HTTPTimeout:     15 * time.Second,
		Mdns: MdnsConfig{
			Service: "_juicyboard-api._tcp",
			Timeout: 3 * time.Second,
		},
	}
}

// Load reads the config file and fills unset values with defaults. A
// missing file is not an error: the defaults are returned as-is.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.ScrollThreshold <= 0 {
		c.ScrollThreshold = d.ScrollThreshold
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.Mdns.Service == "" {
		c.Mdns.Service = d.Mdns.Service
	}
	if c.Mdns.Timeout <= 0 {
		c.Mdns.Timeout = d.Mdns.Timeout
	}
}

// DefaultDataDir is where the session database lives when data_dir is not
// configured.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "juicyboard"), nil
}
