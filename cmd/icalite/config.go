package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the optional TOML configuration file. All fields have working
// defaults; a missing file is not an error.
type Config struct {
	// DefaultTimezone interprets floating date-times during import, e.g.
	// "Europe/Berlin". Empty means the system local zone.
	DefaultTimezone string `toml:"default_timezone"`
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "icalite", "config.toml")
	}
	return ""
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{}

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// zone resolves the configured default timezone.
func (c *Config) zone() (*time.Location, error) {
	if c.DefaultTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("default_timezone %q: %w", c.DefaultTimezone, err)
	}
	return loc, nil
}

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *Config
	configErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = *c.configFlag
		}
		c.config, c.configErr = loadConfig(path)
	})
	return c.config, c.configErr
}
