package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/powernap/internal/logger"
	"github.com/hammamikhairi/powernap/internal/notify"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDuration, EnvTrigger, EnvLogLevel, EnvSound, EnvDesktop} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Nap.Duration.Std())
	assert.Equal(t, notify.DefaultTitle, cfg.Notification.Title)
	assert.Equal(t, notify.TriggerCalendar, cfg.TriggerMode())
	assert.True(t, cfg.Notification.Sound)
	assert.True(t, cfg.Notification.Desktop)
	assert.Equal(t, logger.LevelNormal, cfg.LogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaultPathUsesHome(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".powernap"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".powernap", "config.yaml"),
		[]byte("nap:\n  duration: 25m\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 25*time.Minute, cfg.Nap.Duration.Std())
	assert.Equal(t, filepath.Join(home, ".powernap", "powernap.log"), cfg.Log.File)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
nap:
  duration: 20m
notification:
  title: Up
  trigger: interval
  sound: false
alarm:
  beeps: 5
log:
  level: verbose
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Minute, cfg.Nap.Duration.Std())
	assert.Equal(t, "Up", cfg.Notification.Title)
	assert.Equal(t, notify.DefaultBody, cfg.Notification.Body, "unset keys keep defaults")
	assert.Equal(t, notify.TriggerInterval, cfg.TriggerMode())
	assert.False(t, cfg.Notification.Sound)
	assert.True(t, cfg.Notification.Desktop)
	assert.Equal(t, 5, cfg.Alarm.Beeps)
	assert.Equal(t, logger.LevelVerbose, cfg.LogLevel())
}

func TestLoadBareSeconds(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "nap:\n  duration: 90\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Nap.Duration.Std())
}

func TestLoadParseError(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "nap:\n  duration: soon\n")
	_, err := Load(path)
	assert.Error(t, err)

	path = writeFile(t, "broken.yaml", "nap: [\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", "nap:\n  duration: 20m\n")
	t.Setenv(EnvDuration, "45s")
	t.Setenv(EnvTrigger, "interval")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvSound, "false")
	t.Setenv(EnvDesktop, "0")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Nap.Duration.Std())
	assert.Equal(t, notify.TriggerInterval, cfg.TriggerMode())
	assert.Equal(t, logger.LevelVerbose, cfg.LogLevel())
	assert.False(t, cfg.Notification.Sound)
	assert.False(t, cfg.Notification.Desktop)
}

func TestEnvInvalidValues(t *testing.T) {
	for key, val := range map[string]string{EnvDuration: "later", EnvSound: "maybe"} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestDotEnvFiles(t *testing.T) {
	clearEnv(t)
	env := writeFile(t, ".env", "POWERNAP_DURATION=2m\nPOWERNAP_TRIGGER=interval\n")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), env, filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Nap.Duration.Std())
	assert.Equal(t, notify.TriggerInterval, cfg.TriggerMode())

	t.Setenv(EnvDuration, "3m")
	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), env)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, cfg.Nap.Duration.Std(), "process env wins over .env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero duration", func(c *Config) { c.Nap.Duration = 0 }},
		{"negative duration", func(c *Config) { c.Nap.Duration = Duration(-time.Second) }},
		{"unknown trigger", func(c *Config) { c.Notification.Trigger = "weekly" }},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"no beeps", func(c *Config) { c.Alarm.Beeps = 0 }},
		{"zero frequency", func(c *Config) { c.Alarm.Frequency = 0 }},
		{"loud volume", func(c *Config) { c.Alarm.Volume = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestYAMLRoundTripsDuration(t *testing.T) {
	cfg := Default()
	cfg.Nap.Duration = Duration(20 * time.Minute)

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "duration: 20m0s")

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, cfg.Nap.Duration, back.Nap.Duration)
}
