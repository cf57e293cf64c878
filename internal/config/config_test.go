package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and defaulting for the settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing listen address.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Bad listen address.
	cfg = &Config{
		ListenAddress: "bad:address",
	}

	err = Validate(cfg)
	require.Error(t, err)

	// Minimal valid settings pick up defaults.
	cfg = &Config{
		ListenAddress: "127.0.0.1:0",
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultAlarmsFilename, cfg.AlarmsFile)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ListenAddress: "127.0.0.1:8484",
		AlarmsFile:    filepath.Join(dir, "alarms.json"),
		Timeout:       3 * time.Second,
		LogLevel:      "debug",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ListenAddress, loaded.ListenAddress)
	require.Equal(t, cfg.AlarmsFile, loaded.AlarmsFile)
	require.Equal(t, cfg.Timeout, loaded.Timeout)
	require.Equal(t, cfg.LogLevel, loaded.LogLevel)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)

	// Nil settings are rejected.
	require.Error(t, Save(path, nil))

	// Missing file surfaces as an error.
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
