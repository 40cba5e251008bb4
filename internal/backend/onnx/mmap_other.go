//go:build !noonnx && !unix

package onnx

import (
	"errors"
	"os"
)

func mapFile(*os.File, int) ([]byte, error) {
	return nil, errors.New("mmap unsupported")
}

func unmapFile([]byte) error { return nil }
