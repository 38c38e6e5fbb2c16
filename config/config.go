package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-qccprov/provision"
)

// DefaultFileName is the configuration file looked up in the base directory.
const DefaultFileName = "qccprov.yaml"

// Config is the kiosk configuration file.
type Config struct {
	NvsTool    string `yaml:"nvs_tool"`
	ConfigTool string `yaml:"config_tool"`
	Database   string `yaml:"database"`
	DevCfg     string `yaml:"dev_cfg"`
	UserCfg    string `yaml:"user_cfg"`

	SettleDelay     Duration `yaml:"settle_delay"`
	IdentifyOnStart bool     `yaml:"identify_on_start"`
	LogLevel        string   `yaml:"log_level"`
}

// Duration is a time.Duration written as a string such as "5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Default returns the standard layout with paths relative to the base
// directory.
func Default() Config {
	p := provision.DefaultPaths("")
	return Config{
		NvsTool:     p.NvsTool,
		ConfigTool:  p.ConfigTool,
		Database:    p.Database,
		DevCfg:      p.DevCfg,
		UserCfg:     p.UserCfg,
		SettleDelay: Duration(provision.DefaultSettleDelay),
		LogLevel:    "info",
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative")
	}
	for name, v := range map[string]string{
		"nvs_tool":    c.NvsTool,
		"config_tool": c.ConfigTool,
		"database":    c.Database,
		"dev_cfg":     c.DevCfg,
		"user_cfg":    c.UserCfg,
	} {
		if v == "" {
			return fmt.Errorf("%s is empty", name)
		}
	}
	return nil
}

// Paths resolves the configured files against baseDir.
func (c Config) Paths(baseDir string) provision.Paths {
	return provision.Paths{
		NvsTool:    resolve(baseDir, c.NvsTool),
		ConfigTool: resolve(baseDir, c.ConfigTool),
		Database:   resolve(baseDir, c.Database),
		DevCfg:     resolve(baseDir, c.DevCfg),
		UserCfg:    resolve(baseDir, c.UserCfg),
	}
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
