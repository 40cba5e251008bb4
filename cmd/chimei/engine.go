package main

import (
	"context"

	"github.com/samcharles93/chimei/internal/backend"
	"github.com/samcharles93/chimei/internal/inference"
	"github.com/samcharles93/chimei/internal/logger"
	"github.com/samcharles93/chimei/internal/vocab"
)

// newOrchestrator wires the vocabulary, backend and session from the shared
// model flags. The engine itself loads on first use.
func newOrchestrator(ctx context.Context, cfg inference.Config) (*inference.Orchestrator, *vocab.Vocabulary, error) {
	v, err := loadVocabulary(vocabPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = blockSize
	}
	opts := backend.Options{
		Backend:           backendArg,
		ModelPath:         resolveModelPath(modelPath),
		BlockSize:         cfg.BlockSize,
		VocabSize:         v.Size(),
		SharedLibraryPath: ortLib,
		Threads:           threads,
	}
	loader, err := backend.NewLoader(opts)
	if err != nil {
		return nil, nil, err
	}
	resolved, _ := backend.Resolve(opts)
	logger.FromContext(ctx).Debug("configured backend",
		"backend", resolved,
		"model", opts.ModelPath,
		"vocab", v.Size(),
		"block_size", cfg.BlockSize,
	)

	session := inference.NewSession(loader, func(e inference.Engine) error {
		return v.Validate(e.VocabSize())
	})
	return inference.NewOrchestrator(session, v, cfg), v, nil
}
