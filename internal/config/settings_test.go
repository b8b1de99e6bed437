package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", s.ListenAddr)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.NotContains(t, s.DBPath, "~")
}

func TestLoadSettingsOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("listen_addr", "127.0.0.1:9000")
	v.Set("db_path", "/tmp/nestegg-test.db")

	s, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", s.ListenAddr)
	assert.Equal(t, "/tmp/nestegg-test.db", s.DBPath)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data.db"), ExpandPath("~/data.db"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/var/lib/app.db", ExpandPath("/var/lib/app.db"))
	assert.Equal(t, "", ExpandPath(""))
}
