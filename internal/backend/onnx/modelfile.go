//go:build !noonnx

package onnx

import (
	"errors"
	"fmt"
	"os"
)

// modelFile holds the bytes of a serialized model, mapped where the
// platform allows. ONNX Runtime copies the graph during session creation,
// so the file is released right after.
type modelFile struct {
	data    []byte
	mmapped bool
}

func openModelFile(path string) (*modelFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := st.Size()
	if size64 <= 0 {
		return nil, fmt.Errorf("model %s is empty", path)
	}
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, errors.New("model file too large to map")
	}
	size := int(size64)

	if data, err := mapFile(f, size); err == nil {
		return &modelFile{data: data, mmapped: true}, nil
	}

	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return &modelFile{data: data}, nil
}

func (m *modelFile) Close() error {
	if m == nil || m.data == nil {
		return nil
	}
	var err error
	if m.mmapped {
		err = unmapFile(m.data)
	}
	m.data = nil
	return err
}
