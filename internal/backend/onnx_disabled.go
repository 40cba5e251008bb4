//go:build noonnx

package backend

import (
	"errors"

	"github.com/samcharles93/chimei/internal/inference"
)

const onnxEnabled = false

var errONNXUnavailable = errors.New("onnx backend is not available in this build")

func newONNX(Options) (inference.Engine, error) {
	return nil, errONNXUnavailable
}
