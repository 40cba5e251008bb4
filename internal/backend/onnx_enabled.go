//go:build !noonnx

package backend

import (
	"github.com/samcharles93/chimei/internal/backend/onnx"
	"github.com/samcharles93/chimei/internal/inference"
)

const onnxEnabled = true

func newONNX(opts Options) (inference.Engine, error) {
	e, err := onnx.Open(onnx.Config{
		ModelPath:         opts.ModelPath,
		BlockSize:         opts.BlockSize,
		SharedLibraryPath: opts.SharedLibraryPath,
		Threads:           opts.Threads,
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}
