// Package backend selects and constructs the inference engine behind a
// generation session.
package backend

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samcharles93/chimei/internal/inference"
	"github.com/samcharles93/chimei/internal/logger"
	"github.com/samcharles93/chimei/internal/toy"
)

const (
	ONNX = "onnx"
	Toy  = "toy"
	Auto = "auto"
)

// Options describes the engine to build.
type Options struct {
	Backend   string
	ModelPath string
	BlockSize int
	// VocabSize sizes the built-in model; ONNX models declare their own.
	VocabSize int
	// SharedLibraryPath overrides where ONNX Runtime is loaded from.
	SharedLibraryPath string
	// Threads caps ONNX Runtime intra-op threads; zero keeps its default.
	Threads int
	// Seed fills the built-in model's weights.
	Seed int64
}

func Normalize(name string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(name))
	if backend == "" {
		return Auto, nil
	}
	switch backend {
	case ONNX, Toy, Auto:
		return backend, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected auto, onnx, or toy)", backend)
	}
}

// Resolve turns auto into a concrete backend: onnx for an .onnx model when
// this build includes it, toy otherwise.
func Resolve(opts Options) (string, error) {
	name, err := Normalize(opts.Backend)
	if err != nil {
		return "", err
	}
	if name != Auto {
		return name, nil
	}
	if strings.EqualFold(filepath.Ext(opts.ModelPath), ".onnx") && Has(ONNX) {
		return ONNX, nil
	}
	return Toy, nil
}

// NewLoader returns an inference.Loader for opts. Nothing is loaded until
// the loader runs.
func NewLoader(opts Options) (inference.Loader, error) {
	name, err := Resolve(opts)
	if err != nil {
		return nil, err
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = inference.DefaultBlockSize
	}
	switch name {
	case ONNX:
		if strings.TrimSpace(opts.ModelPath) == "" {
			return nil, fmt.Errorf("onnx backend requires a model path")
		}
		return func(ctx context.Context) (inference.Engine, error) {
			logger.FromContext(ctx).Info("loading onnx model", "path", opts.ModelPath)
			return newONNX(opts)
		}, nil
	default:
		return func(ctx context.Context) (inference.Engine, error) {
			if opts.VocabSize <= 0 {
				return nil, fmt.Errorf("toy backend requires a vocabulary size")
			}
			cfg := toy.DefaultConfig(opts.VocabSize, opts.BlockSize)
			if opts.Seed != 0 {
				cfg.Seed = opts.Seed
			}
			logger.FromContext(ctx).Info("building toy model", "vocab", cfg.Vocab, "block_size", cfg.BlockSize)
			m, err := toy.New(cfg)
			if err != nil {
				return nil, err
			}
			return m, nil
		}, nil
	}
}
