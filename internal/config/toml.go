package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// APIURLEnv overrides the configured API base URL.
const APIURLEnv = "TECLA_API_URL"

// FileConfig is the content of config.toml. Unset keys stay nil so that
// flags and defaults can fill them.
type FileConfig struct {
	API      APIConfig      `toml:"api"`
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`

	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

type APIConfig struct {
	URL            *string `toml:"url"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
	Retries        *int    `toml:"retries"`
}

type PracticeConfig struct {
	AutoAdvance *bool    `toml:"auto-advance"`
	Words       *int     `toml:"words"`
	WordList    *string  `toml:"wordlist"`
	Lang        *string  `toml:"lang"`
	CapsPct     *float64 `toml:"caps"`
	PunctPct    *float64 `toml:"punct"`
	PunctSet    *string  `toml:"punct-set"`
	FocusWeak   *bool    `toml:"focus-weak"`
	WeakTop     *int     `toml:"weak-top"`
	WeakFactor  *float64 `toml:"weak-factor"`
	WeakWindow  *int     `toml:"weak-window"`
}

type LogConfig struct {
	Level *string `toml:"level"`
	Path  *string `toml:"path"`
}

// LoadConfig decodes the TOML file at path. A missing file yields an empty
// FileConfig.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, errors.New("config path is empty")
	}
	meta, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return FileConfig{}, nil
	case err != nil:
		return FileConfig{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment, skipping the
// ones that do not exist. Variables that are already set win.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil || errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with environment variables.
func (c *FileConfig) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(APIURLEnv)); v != "" {
		c.API.URL = &v
	}
}
