package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the chimei configuration file (~/.config/chimei/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	Model     string `yaml:"model"`
	Backend   string `yaml:"backend"`
	Vocab     string `yaml:"vocab"`
	BlockSize *int   `yaml:"block_size"`
	OrtLib    string `yaml:"ort_lib"`

	// Generation defaults
	Count       *int     `yaml:"count"`
	Seed        *int64   `yaml:"seed"`
	Workers     *int     `yaml:"workers"`
	Temperature *float64 `yaml:"temperature"`
	MaxSteps    *int     `yaml:"max_steps"`
	OnError     string   `yaml:"on_error"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chimei", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	cfg, err := readConfig(configPath())
	if err != nil {
		return Config{}
	}
	return cfg
}

func readConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyModelConfig applies config file defaults to the shared model flags
// when the corresponding CLI flag was not explicitly set.
func applyModelConfig(c *cli.Command, cfg Config) {
	if cfg.Model != "" && !c.IsSet("model") {
		modelPath = cfg.Model
	}
	if cfg.Backend != "" && !c.IsSet("backend") {
		backendArg = cfg.Backend
	}
	if cfg.Vocab != "" && !c.IsSet("vocab") {
		vocabPath = cfg.Vocab
	}
	if cfg.BlockSize != nil && !c.IsSet("block-size") {
		blockSize = *cfg.BlockSize
	}
	if cfg.OrtLib != "" && !c.IsSet("ort-lib") {
		ortLib = cfg.OrtLib
	}
}

// generateSettings are the generate command's own flags.
type generateSettings struct {
	count    int
	seed     int64
	seedSet  bool
	workers  int
	onError  string
	sampling samplingSettings
}

func applySamplingConfig(c *cli.Command, cfg Config, s *samplingSettings) {
	if cfg.Temperature != nil && !c.IsSet("temperature") {
		s.temperature = *cfg.Temperature
	}
	if cfg.MaxSteps != nil && !c.IsSet("max-steps") {
		s.maxSteps = *cfg.MaxSteps
	}
}

func applyGenerateConfig(c *cli.Command, cfg Config, s *generateSettings) {
	applyModelConfig(c, cfg)
	if cfg.Count != nil && !c.IsSet("count") {
		s.count = *cfg.Count
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		s.seed = *cfg.Seed
		s.seedSet = true
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		s.workers = *cfg.Workers
	}
	applySamplingConfig(c, cfg, &s.sampling)
	if cfg.OnError != "" && !c.IsSet("on-error") {
		s.onError = cfg.OnError
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string, workers *int, sampling *samplingSettings) {
	applyModelConfig(c, cfg)
	applySamplingConfig(c, cfg, sampling)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		*workers = *cfg.Workers
	}
}
