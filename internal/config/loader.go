package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigName is the base name of the project config file
const ConfigName = ".m2docs"

// EnvPrefix prefixes every environment override, e.g. M2DOCS_CHUNKING_OVERLAP
const EnvPrefix = "M2DOCS"

// Loader reads configuration with the following priority (highest to lowest):
// 1. Environment variables (M2DOCS_*)
// 2. Config file (an explicit path, or .m2docs.yaml in the root directory)
// 3. Default values
type Loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader that looks for .m2docs.yaml in rootDir
func NewLoader(rootDir string) *Loader {
	return &Loader{rootDir: rootDir}
}

// WithConfigFile makes the loader read path instead of searching rootDir.
// A missing explicit file is an error.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// Load loads and validates the configuration
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.root", defaults.Paths.Root)
	v.SetDefault("paths.extensions", defaults.Paths.Extensions)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("chunking.max_tokens", defaults.Chunking.MaxTokens)
	v.SetDefault("chunking.overlap", defaults.Chunking.Overlap)

	v.SetDefault("extract.workers", defaults.Extract.Workers)
	v.SetDefault("extract.cache_size", defaults.Extract.CacheSize)

	v.SetDefault("output.docs", defaults.Output.Docs)
	v.SetDefault("output.chunks", defaults.Output.Chunks)

	v.SetDefault("storage.db_path", defaults.Storage.DBPath)
}

// LoadConfig loads configuration using the current working directory as root
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}
