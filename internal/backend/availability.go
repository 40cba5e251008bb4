package backend

import "strings"

// Available returns a comma-separated list of available backends.
func Available() string {
	entries := []string{Toy}
	if Has(ONNX) {
		entries = append(entries, ONNX)
	}
	return strings.Join(entries, ",")
}

// Has reports whether this build can construct the named backend.
func Has(name string) bool {
	switch name {
	case Toy:
		return true
	case ONNX:
		return onnxEnabled
	default:
		return false
	}
}
