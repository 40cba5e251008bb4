//go:build !noonnx

package onnx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// EnvSharedLibraryPath names the variable that points at the ONNX Runtime
// shared library.
const EnvSharedLibraryPath = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// ErrRuntimeNotFound is returned when no ONNX Runtime shared library can be
// located.
var ErrRuntimeNotFound = errors.New("onnx runtime shared library not found")

var (
	envMu          sync.Mutex
	envInitialized bool
)

// initEnvironment loads the shared library and initializes the ONNX Runtime
// environment once per process.
func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if envInitialized {
		return nil
	}
	path, err := findSharedLibrary(libPath)
	if err != nil {
		return err
	}
	ort.SetSharedLibraryPath(path)
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnx runtime from %s: %w", path, err)
	}
	envInitialized = true
	return nil
}

// findSharedLibrary resolves the library from an explicit path, then the
// environment, then a few conventional locations.
func findSharedLibrary(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %w", ErrRuntimeNotFound, err)
		}
		return explicit, nil
	}
	if p := os.Getenv(EnvSharedLibraryPath); p != "" {
		return findSharedLibrary(p)
	}
	for _, p := range candidatePaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (set %s or --ort-lib)", ErrRuntimeNotFound, EnvSharedLibraryPath)
}

func candidatePaths() []string {
	var name string
	switch runtime.GOOS {
	case "darwin":
		name = "libonnxruntime.dylib"
	case "windows":
		name = "onnxruntime.dll"
	default:
		name = "libonnxruntime.so"
	}
	paths := []string{filepath.Join(".", name)}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), name))
	}
	if runtime.GOOS != "windows" {
		paths = append(paths,
			filepath.Join("/usr/local/lib", name),
			filepath.Join("/usr/lib", name),
		)
	}
	if runtime.GOOS == "darwin" {
		paths = append(paths, filepath.Join("/opt/homebrew/lib", name))
	}
	return paths
}
