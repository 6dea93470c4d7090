// Package config handles global configuration loading using viper.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/strix/internal/core"
	"firestige.xyz/strix/internal/log"
)

// GlobalConfig represents the top-level static configuration. Maps to the
// `strix:` root key in YAML. Structs carry yaml tags next to mapstructure
// because the validate path decodes the file directly (see loader.go).
type GlobalConfig struct {
	Node      NodeConfig       `mapstructure:"node" yaml:"node"`
	Source    SourceConfig     `mapstructure:"source" yaml:"source"`
	Decoder   DecoderConfig    `mapstructure:"decoder" yaml:"decoder"`
	Reporters []ReporterConfig `mapstructure:"reporters" yaml:"reporters"`
	Metrics   MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
	Log       log.LoggerConfig `mapstructure:"log" yaml:"log"`
}

// NodeConfig contains agent identification settings.
type NodeConfig struct {
	Hostname string            `mapstructure:"hostname" yaml:"hostname"` // Empty = os.Hostname()
	Tags     map[string]string `mapstructure:"tags" yaml:"tags"`
}

// SourceConfig selects and configures the record feed.
type SourceConfig struct {
	Type       string `mapstructure:"type" yaml:"type"`               // udp | tcp | file
	Listen     string `mapstructure:"listen" yaml:"listen"`           // udp listen address
	Addr       string `mapstructure:"addr" yaml:"addr"`               // tcp dial address
	Path       string `mapstructure:"path" yaml:"path"`               // file path for framed captures
	ReadBuffer int    `mapstructure:"read_buffer" yaml:"read_buffer"` // udp socket receive buffer, bytes
}

// DecoderConfig configures the record decoder.
type DecoderConfig struct {
	Strict       bool `mapstructure:"strict" yaml:"strict"`               // fail records with out-of-range fields
	MaxSubFrames int  `mapstructure:"max_subframes" yaml:"max_subframes"` // 0 = decoder default
}

// ReporterConfig configures one report sink.
type ReporterConfig struct {
	Type    string                 `mapstructure:"type" yaml:"type"`
	Options map[string]interface{} `mapstructure:"options" yaml:"options"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// configRoot is the top-level wrapper matching the YAML structure `strix: ...`.
type configRoot struct {
	Strix GlobalConfig `mapstructure:"strix" yaml:"strix"`
}

// Load loads configuration from file. The YAML file uses `strix:` as root
// key; env vars override via the STRIX_ prefix (e.g. STRIX_LOG_LEVEL maps
// to strix.log.level).
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// The `strix.` key prefix maps to the STRIX_ env prefix through the
	// key replacer, so no explicit SetEnvPrefix is needed.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Strix

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration. All keys use the
// "strix." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("strix.source.type", "udp")
	v.SetDefault("strix.source.listen", ":5555")
	v.SetDefault("strix.source.read_buffer", 1048576)

	// Decoder defaults
	v.SetDefault("strix.decoder.strict", false)
	v.SetDefault("strix.decoder.max_subframes", 64)

	// Metrics defaults
	v.SetDefault("strix.metrics.enabled", true)
	v.SetDefault("strix.metrics.listen", ":9091")
	v.SetDefault("strix.metrics.path", "/metrics")

	// Log defaults
	v.SetDefault("strix.log.level", "info")
	v.SetDefault("strix.log.pattern", "%time [%level] %msg %field%n")
	v.SetDefault("strix.log.time", "2006-01-02 15:04:05.000")
	v.SetDefault("strix.log.file.enabled", false)
	v.SetDefault("strix.log.file.filename", "/var/log/strix/strix.log")
	v.SetDefault("strix.log.file.max_size_mb", 100)
	v.SetDefault("strix.log.file.max_backups", 5)
	v.SetDefault("strix.log.file.max_age_days", 30)
	v.SetDefault("strix.log.file.compress", true)
}

// ValidateAndApplyDefaults validates configuration and applies runtime
// defaults that depend on the environment.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: log level %q (must be trace/debug/info/warn/error)",
			core.ErrConfigInvalid, cfg.Log.Level)
	}

	if cfg.Node.Hostname == "" {
		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("failed to get hostname: %w", err)
		}
		cfg.Node.Hostname = hostname
	}

	switch cfg.Source.Type {
	case "udp":
		if cfg.Source.Listen == "" {
			return fmt.Errorf("%w: source.listen is required for the udp source", core.ErrConfigInvalid)
		}
	case "tcp":
		if cfg.Source.Addr == "" {
			return fmt.Errorf("%w: source.addr is required for the tcp source", core.ErrConfigInvalid)
		}
	case "file":
		if cfg.Source.Path == "" {
			return fmt.Errorf("%w: source.path is required for the file source", core.ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: source.type %q (must be udp/tcp/file)", core.ErrConfigInvalid, cfg.Source.Type)
	}

	if cfg.Decoder.MaxSubFrames < 0 {
		return fmt.Errorf("%w: decoder.max_subframes must not be negative", core.ErrConfigInvalid)
	}

	// A sniffer without reporters would decode into the void.
	if len(cfg.Reporters) == 0 {
		cfg.Reporters = []ReporterConfig{{Type: "console"}}
	}
	for i, r := range cfg.Reporters {
		if r.Type == "" {
			return fmt.Errorf("%w: reporters[%d].type is empty", core.ErrConfigInvalid, i)
		}
	}

	return nil
}
