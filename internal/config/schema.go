package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Metrics  MetricsConfig  `yaml:"metrics" envPrefix:"METRICS_"`
}

// DatabaseConfig describes how to reach the contact database
type DatabaseConfig struct {
	Driver Driver `yaml:"driver" env:"DRIVER"`

	// SQLite
	Path string `yaml:"path,omitempty" env:"PATH"`

	// Postgres. URL, when set, is used as is.
	URL                    string `yaml:"url,omitempty" env:"URL"`
	Host                   string `yaml:"host,omitempty" env:"HOST"`
	Port                   int    `yaml:"port,omitempty" env:"PORT"`
	Name                   string `yaml:"name,omitempty" env:"NAME"`
	User                   string `yaml:"user,omitempty" env:"USER"`
	Password               string `yaml:"password,omitempty" env:"PASSWORD"`
	IntegratedSecurity     bool   `yaml:"integrated_security,omitempty" env:"INTEGRATED_SECURITY"`
	Encrypt                *bool  `yaml:"encrypt,omitempty" env:"ENCRYPT"`
	TrustServerCertificate bool   `yaml:"trust_server_certificate,omitempty" env:"TRUST_SERVER_CERTIFICATE"`

	CommandTimeout Duration `yaml:"command_timeout" env:"COMMAND_TIMEOUT"`
	PingTimeout    Duration `yaml:"ping_timeout" env:"PING_TIMEOUT"`
	MaxOpenConns   int      `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
}

// LogConfig controls the runner's logger
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // console or json
	Path   string `yaml:"path,omitempty" env:"PATH"`
}

// MetricsConfig controls the metrics dump written when the runner exits
type MetricsConfig struct {
	File string `yaml:"file,omitempty" env:"FILE"`
}

// Duration wraps time.Duration for YAML and environment parsing
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
