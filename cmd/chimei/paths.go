package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samcharles93/chimei/internal/vocab"
)

const envModel = "CHIMEI_MODEL"

// resolveModelPath picks the model from the flag, then $CHIMEI_MODEL. An
// empty result selects the built-in model under the auto backend.
func resolveModelPath(modelFlag string) string {
	if p := strings.TrimSpace(modelFlag); p != "" {
		return filepath.Clean(p)
	}
	if p := strings.TrimSpace(os.Getenv(envModel)); p != "" {
		return filepath.Clean(p)
	}
	return ""
}

func loadVocabulary(path string) (*vocab.Vocabulary, error) {
	if strings.TrimSpace(path) == "" {
		return vocab.Japanese(), nil
	}
	return vocab.LoadFile(filepath.Clean(path))
}
