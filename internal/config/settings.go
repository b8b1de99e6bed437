// Package config provides plan-file parsing and application settings.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the application-level configuration for the server and CLI.
type Settings struct {
	ListenAddr string `mapstructure:"listen_addr"`
	DBPath     string `mapstructure:"db_path"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("db_path", "~/.local/share/nestegg/nestegg.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// LoadSettings reads settings from the given viper instance.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, err
	}
	s.DBPath = ExpandPath(s.DBPath)
	return s, nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
