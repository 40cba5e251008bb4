// Package toy provides a small built-in character model with the same shape
// as the exported place-name network: an embedding table, a flatten, and two
// linear layers. Its weights are pseudo-random but reproducible from a seed,
// which makes it useful for demos and for exercising the generation loop
// without ONNX Runtime.
package toy

import (
	"context"
	"fmt"

	"github.com/samcharles93/chimei/internal/tensor"
)

// Config describes the network dimensions.
type Config struct {
	Vocab     int
	BlockSize int
	Embed     int
	Hidden    int
	Seed      int64

	// TerminatorBias is added to the logit of index 0 so untrained weights
	// still end names at a plausible length.
	TerminatorBias float32
}

// DefaultConfig mirrors the dimensions of the trained Japanese city model.
func DefaultConfig(vocab, blockSize int) Config {
	return Config{
		Vocab:          vocab,
		BlockSize:      blockSize,
		Embed:          24,
		Hidden:         150,
		Seed:           1,
		TerminatorBias: 1.5,
	}
}

// MLP is safe for concurrent use: Infer keeps no state between calls.
type MLP struct {
	cfg Config

	Emb tensor.Mat // [Vocab x Embed]
	W1  tensor.Mat // [Hidden x BlockSize*Embed]
	B1  []float32  // [Hidden]
	W2  tensor.Mat // [Vocab x Hidden]
	B2  []float32  // [Vocab]
}

// New constructs a model and fills its weights deterministically from
// cfg.Seed. Biases start at zero apart from the terminator bias.
func New(cfg Config) (*MLP, error) {
	if cfg.Vocab <= 0 || cfg.BlockSize <= 0 || cfg.Embed <= 0 || cfg.Hidden <= 0 {
		return nil, fmt.Errorf("toy: invalid dimensions %+v", cfg)
	}
	m := &MLP{
		cfg: cfg,
		Emb: tensor.NewMat(cfg.Vocab, cfg.Embed),
		W1:  tensor.NewMat(cfg.Hidden, cfg.BlockSize*cfg.Embed),
		B1:  make([]float32, cfg.Hidden),
		W2:  tensor.NewMat(cfg.Vocab, cfg.Hidden),
		B2:  make([]float32, cfg.Vocab),
	}
	tensor.FillRand(&m.Emb, cfg.Seed+11, 2)
	tensor.FillRand(&m.W1, cfg.Seed+23, 0.2)
	// last layer less confident, as in training
	tensor.FillRand(&m.W2, cfg.Seed+37, 0.02)
	m.B2[0] = cfg.TerminatorBias
	return m, nil
}

// VocabSize reports the number of logits Infer returns.
func (m *MLP) VocabSize() int { return m.cfg.Vocab }

// BlockSize reports the context length Infer expects.
func (m *MLP) BlockSize() int { return m.cfg.BlockSize }

// Infer computes logits for the next token given a full context window.
// Indices outside [0, Vocab) are rejected.
func (m *MLP) Infer(ctx context.Context, window []int64) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(window) != m.cfg.BlockSize {
		return nil, fmt.Errorf("toy: context length %d, want %d", len(window), m.cfg.BlockSize)
	}

	// x = flatten(Emb[window])
	x := make([]float32, m.cfg.BlockSize*m.cfg.Embed)
	for t, tok := range window {
		if tok < 0 || tok >= int64(m.cfg.Vocab) {
			return nil, fmt.Errorf("toy: token %d out of range at position %d", tok, t)
		}
		copy(x[t*m.cfg.Embed:(t+1)*m.cfg.Embed], m.Emb.Row(int(tok)))
	}

	h := make([]float32, m.cfg.Hidden)
	tensor.MatVec(h, &m.W1, x)
	tensor.AddInPlace(h, m.B1)

	logits := make([]float32, m.cfg.Vocab)
	tensor.MatVec(logits, &m.W2, h)
	tensor.AddInPlace(logits, m.B2)
	return logits, nil
}

// Close is a no-op; the model owns no external resources.
func (m *MLP) Close() error { return nil }
