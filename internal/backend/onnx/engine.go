//go:build !noonnx

// Package onnx runs an exported place-name model with ONNX Runtime.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ort "github.com/yalue/onnxruntime_go"
)

// Config selects the model and runtime.
type Config struct {
	ModelPath         string
	BlockSize         int
	SharedLibraryPath string
	Threads           int
}

// Engine wraps a DynamicAdvancedSession whose first input takes an int64
// [1, BlockSize] tensor and whose first output holds the logits. Run is safe
// for concurrent use, so Infer is too.
type Engine struct {
	session    *ort.DynamicAdvancedSession
	blockSize  int
	vocabSize  int
	inputName  string
	outputName string
}

// Open loads the model. Failures to find or start ONNX Runtime, to read the
// model, or to probe its output size are all returned to the caller.
func Open(cfg Config) (*Engine, error) {
	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, errors.New("model path is required")
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("invalid block size %d", cfg.BlockSize)
	}
	if err := initEnvironment(cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	model, err := openModelFile(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer func() { _ = model.Close() }()

	inputInfo, outputInfo, err := ort.GetInputOutputInfoWithONNXData(model.data)
	if err != nil {
		return nil, fmt.Errorf("read model info: %w", err)
	}
	if len(inputInfo) == 0 || len(outputInfo) == 0 {
		return nil, fmt.Errorf("model %s has no inputs or outputs", cfg.ModelPath)
	}
	in, out := inputInfo[0], outputInfo[0]

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()
	if cfg.Threads > 0 {
		if err := options.SetIntraOpNumThreads(cfg.Threads); err != nil {
			return nil, fmt.Errorf("set intra-op threads: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(model.data, []string{in.Name}, []string{out.Name}, options)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	e := &Engine{
		session:    session,
		blockSize:  cfg.BlockSize,
		inputName:  in.Name,
		outputName: out.Name,
	}

	if dims := out.Dimensions; len(dims) > 0 && dims[len(dims)-1] > 0 {
		e.vocabSize = int(dims[len(dims)-1])
	} else {
		// Dynamic output width: ask the model.
		probe, err := e.Infer(context.Background(), make([]int64, cfg.BlockSize))
		if err != nil {
			_ = e.Close()
			return nil, fmt.Errorf("probe output size: %w", err)
		}
		e.vocabSize = len(probe)
	}
	return e, nil
}

// VocabSize reports the width of the logits output.
func (e *Engine) VocabSize() int { return e.vocabSize }

// Infer runs the model on one context window and returns a copy of its
// float32 logits.
func (e *Engine) Infer(ctx context.Context, window []int64) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(window) != e.blockSize {
		return nil, fmt.Errorf("context length %d, want %d", len(window), e.blockSize)
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(e.blockSize)), append([]int64(nil), window...))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("output %q is %T, want float32 tensor", e.outputName, outputs[0])
	}
	return append([]float32(nil), logits.GetData()...), nil
}

// Close destroys the session. The process-wide runtime environment stays
// initialized for other sessions.
func (e *Engine) Close() error {
	if e == nil || e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}
