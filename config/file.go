package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/pevans/papertoc/toc"
)

// Defaults used when neither the config file nor the environment sets a
// value.
const (
	DefaultContentsDir = "."
	DefaultConcurrency = 4
	DefaultLogLevel    = "warn"
)

// FileConfig represents the structure of ~/.papertoc/config.yaml.
type FileConfig struct {
	Contents struct {
		Dir string `yaml:"dir"`
	} `yaml:"contents"`
	Vocabulary struct {
		File string `yaml:"file"`
	} `yaml:"vocabulary"`
	Batch struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"batch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Snapshot toc.Selectors `yaml:"snapshot"`
}

// Settings are the resolved settings the CLI runs with.
type Settings struct {
	ContentsDir    string
	VocabularyFile string
	Concurrency    int
	LogLevel       string
	Selectors      toc.Selectors
}

// ConfigFilePath returns the default config file location.
func ConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".papertoc", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.papertoc/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads configuration from an explicit path, with the
// same missing-file behavior as LoadConfigFile.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Resolve merges settings with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file
// 3. Default values (lowest priority)
func Resolve(cfg *FileConfig) Settings {
	s := Settings{
		ContentsDir: DefaultContentsDir,
		Concurrency: DefaultConcurrency,
		LogLevel:    DefaultLogLevel,
		Selectors:   toc.DefaultSelectors(),
	}

	// Apply config file values (if loaded)
	if cfg != nil {
		// Only the selectors the file sets replace the defaults
		s.Selectors = cfg.Snapshot.WithDefaults()
		if cfg.Contents.Dir != "" {
			s.ContentsDir = cfg.Contents.Dir
		}
		if cfg.Vocabulary.File != "" {
			s.VocabularyFile = cfg.Vocabulary.File
		}
		if cfg.Batch.Concurrency > 0 {
			s.Concurrency = cfg.Batch.Concurrency
		}
		if cfg.Log.Level != "" {
			s.LogLevel = cfg.Log.Level
		}
	}

	// Apply environment variables
	if val := os.Getenv("PAPERTOC_CONTENTS_DIR"); val != "" {
		s.ContentsDir = val
	}
	if val := os.Getenv("PAPERTOC_VOCABULARY"); val != "" {
		s.VocabularyFile = val
	}
	if val := os.Getenv("PAPERTOC_CONCURRENCY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			s.Concurrency = n
		}
	}
	if val := os.Getenv("PAPERTOC_LOG_LEVEL"); val != "" {
		s.LogLevel = val
	}

	return s
}

