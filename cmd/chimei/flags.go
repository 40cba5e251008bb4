package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/chimei/internal/backend"
	"github.com/samcharles93/chimei/internal/inference"
	"github.com/samcharles93/chimei/internal/logger"
)

var (
	modelPath  string
	backendArg string
	vocabPath  string
	blockSize  int
	ortLib     string
	threads    int
	logLevel   string
	logFormat  string
	debug      bool
)

func commonModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to an .onnx model (falls back to $" + envModel + ")",
			Destination: &modelPath,
		},
		&cli.StringFlag{
			Name:        "backend",
			Usage:       "inference backend (auto," + backend.Available() + ")",
			Value:       backend.Auto,
			Destination: &backendArg,
		},
		&cli.StringFlag{
			Name:        "vocab",
			Usage:       "vocabulary file (yaml or json); defaults to the built-in Japanese table",
			Destination: &vocabPath,
		},
		&cli.IntFlag{
			Name:        "block-size",
			Usage:       "context window length the model was trained with",
			Value:       inference.DefaultBlockSize,
			Destination: &blockSize,
		},
		&cli.StringFlag{
			Name:        "ort-lib",
			Usage:       "path to the ONNX Runtime shared library",
			Destination: &ortLib,
		},
		&cli.IntFlag{
			Name:        "threads",
			Usage:       "ONNX Runtime intra-op threads (0 keeps the runtime default)",
			Destination: &threads,
		},
	}
}

// samplingSettings shape every name, whichever command asks for it.
type samplingSettings struct {
	temperature float64
	maxSteps    int
}

func samplingFlags(s *samplingSettings) []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:        "temperature",
			Aliases:     []string{"temp", "t"},
			Usage:       "softmax temperature",
			Value:       1.0,
			Destination: &s.temperature,
		},
		&cli.IntFlag{
			Name:        "max-steps",
			Usage:       "give up on a name after this many sampling steps (0 = unlimited)",
			Destination: &s.maxSteps,
		},
	}
}

// apply copies the sampling settings into an orchestrator config.
func (s samplingSettings) apply(cfg inference.Config) inference.Config {
	cfg.Temperature = float32(s.temperature)
	cfg.MaxSteps = s.maxSteps
	return cfg
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       logger.FormatPretty,
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// installLogger puts a logger built from the logging flags and config file
// into the command context. Logs go to stderr so stdout stays clean for
// generated names.
func installLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg := LoadConfig()
	applyLoggingConfig(cmd, cfg)
	level := logLevel
	if debug {
		level = "debug"
	}
	log, err := logger.NewWithFormat(os.Stderr, logFormat, level)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}
