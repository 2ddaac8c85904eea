// Package config loads powernap settings from ~/.powernap/config.yaml,
// .env files and POWERNAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/powernap/internal/alarm"
	"github.com/hammamikhairi/powernap/internal/logger"
	"github.com/hammamikhairi/powernap/internal/notify"
)

// Environment variables that override the config file.
const (
	EnvDuration = "POWERNAP_DURATION"
	EnvTrigger  = "POWERNAP_TRIGGER"
	EnvLogLevel = "POWERNAP_LOG_LEVEL"
	EnvSound    = "POWERNAP_SOUND"
	EnvDesktop  = "POWERNAP_DESKTOP"
)

// Config holds all powernap settings.
type Config struct {
	Nap          NapConfig          `yaml:"nap"`
	Notification NotificationConfig `yaml:"notification"`
	Alarm        AlarmConfig        `yaml:"alarm"`
	Log          LogConfig          `yaml:"log"`
}

// NapConfig holds the preset nap length.
type NapConfig struct {
	Duration Duration `yaml:"duration"`
}

// NotificationConfig controls the wake-up notification and where it is
// delivered.
type NotificationConfig struct {
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Trigger string `yaml:"trigger"`
	Desktop bool   `yaml:"desktop"`
	Sound   bool   `yaml:"sound"`
}

// AlarmConfig shapes the alarm sound.
type AlarmConfig struct {
	Frequency float64 `yaml:"frequency"`
	Beeps     int     `yaml:"beeps"`
	File      string  `yaml:"file,omitempty"`
	Volume    float64 `yaml:"volume"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Duration is a time.Duration written as "10s" or "20m" in YAML.
// A bare integer is read as seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := parseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Nap: NapConfig{
			Duration: Duration(10 * time.Second),
		},
		Notification: NotificationConfig{
			Title:   notify.DefaultTitle,
			Body:    notify.DefaultBody,
			Trigger: notify.TriggerCalendar.String(),
			Desktop: true,
			Sound:   true,
		},
		Alarm: AlarmConfig{
			Frequency: alarm.DefaultFrequency,
			Beeps:     alarm.DefaultBeeps,
			Volume:    alarm.DefaultVolume,
		},
		Log: LogConfig{
			Level: logger.LevelNormal.String(),
			File:  filepath.Join(Dir(), "powernap.log"),
		},
	}
}

// Dir returns the path to ~/.powernap.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".powernap")
	}
	return filepath.Join(homeDir, ".powernap")
}

// DefaultPath returns the path to ~/.powernap/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load builds the configuration: defaults, then the YAML file at path
// (DefaultPath when empty; a missing file is fine), then the variables in
// envFiles, then the process environment. Variables already set in the
// environment win over .env files.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dotenv := map[string]string{}
	for _, f := range envFiles {
		vars, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		for k, v := range vars {
			if _, ok := dotenv[k]; !ok {
				dotenv[k] = v
			}
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDuration); ok && v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDuration, err)
		}
		c.Nap.Duration = Duration(d)
	}
	if v, ok := lookup(EnvTrigger); ok && v != "" {
		c.Notification.Trigger = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	for key, dst := range map[string]*bool{
		EnvSound:   &c.Notification.Sound,
		EnvDesktop: &c.Notification.Desktop,
	} {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", key, v)
		}
		*dst = b
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Nap.Duration <= 0 {
		return fmt.Errorf("nap.duration must be positive, got %s", c.Nap.Duration.Std())
	}
	if _, err := notify.ParseTriggerMode(c.Notification.Trigger); err != nil {
		return fmt.Errorf("notification.trigger: %w", err)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Alarm.Frequency <= 0 {
		return fmt.Errorf("alarm.frequency must be positive, got %g", c.Alarm.Frequency)
	}
	if c.Alarm.Beeps <= 0 {
		return fmt.Errorf("alarm.beeps must be positive, got %d", c.Alarm.Beeps)
	}
	if c.Alarm.Volume < 0 || c.Alarm.Volume > 1 {
		return fmt.Errorf("alarm.volume must be within [0, 1], got %g", c.Alarm.Volume)
	}
	return nil
}

// TriggerMode returns the parsed notification trigger mode.
func (c *Config) TriggerMode() notify.TriggerMode {
	m, _ := notify.ParseTriggerMode(c.Notification.Trigger)
	return m
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logger.Level {
	l, _ := logger.ParseLevel(c.Log.Level)
	return l
}

// YAML renders the configuration as it would appear in config.yaml.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
