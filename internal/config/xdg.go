// Package config locates the files tecla reads and writes and decodes its
// TOML settings.
package config

import (
	"os"
	"path/filepath"
)

const appName = "tecla"

// baseDir is an XDG base directory: an environment variable and the path
// under $HOME used when the variable is unset.
type baseDir struct {
	env      string
	fallback []string
}

var (
	configHome = baseDir{"XDG_CONFIG_HOME", []string{".config"}}
	dataHome   = baseDir{"XDG_DATA_HOME", []string{".local", "share"}}
	stateHome  = baseDir{"XDG_STATE_HOME", []string{".local", "state"}}
)

// path joins the app directory of d with name.
func (d baseDir) path(name string) string {
	root := os.Getenv(d.env)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		root = filepath.Join(append([]string{home}, d.fallback...)...)
	}
	return filepath.Join(root, appName, name)
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string { return configHome.path("config.toml") }

// DefaultEnvPath returns the .env file next to the config file.
func DefaultEnvPath() string { return configHome.path(".env") }

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string { return dataHome.path(appName + ".db") }

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string { return stateHome.path(appName + ".log") }
