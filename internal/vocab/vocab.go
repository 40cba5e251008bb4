// Package vocab maps model token indices to the symbols they stand for.
package vocab

import (
	"errors"
	"fmt"
	"strings"
)

// Terminator is the reserved end-of-name index. It never appears in decoded
// output.
const Terminator = 0

var (
	ErrOutOfRange   = errors.New("token index out of range")
	ErrSizeMismatch = errors.New("vocabulary size mismatch")
	ErrEmpty        = errors.New("vocabulary is empty")
)

// Vocabulary is an immutable dense table from token index to symbol.
type Vocabulary struct {
	symbols []string
}

// New builds a vocabulary where index i decodes to symbols[i]. The slice is
// copied so later changes by the caller are not observed.
func New(symbols []string) (*Vocabulary, error) {
	if len(symbols) == 0 {
		return nil, ErrEmpty
	}
	return &Vocabulary{symbols: append([]string(nil), symbols...)}, nil
}

// Size returns the number of indices, terminator included.
func (v *Vocabulary) Size() int {
	return len(v.symbols)
}

// SymbolOf returns the symbol for index.
func (v *Vocabulary) SymbolOf(index int) (string, error) {
	if index < 0 || index >= len(v.symbols) {
		return "", fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, index, len(v.symbols))
	}
	return v.symbols[index], nil
}

// Decode concatenates the symbols of indices in order, skipping terminators.
func (v *Vocabulary) Decode(indices []int) (string, error) {
	var sb strings.Builder
	sb.Grow(len(indices))
	for _, ix := range indices {
		if ix == Terminator {
			continue
		}
		s, err := v.SymbolOf(ix)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

// Validate checks the table against the vocabulary size an engine declares.
func (v *Vocabulary) Validate(engineSize int) error {
	if engineSize != len(v.symbols) {
		return fmt.Errorf("%w: engine declares %d symbols, vocabulary has %d", ErrSizeMismatch, engineSize, len(v.symbols))
	}
	return nil
}

// Symbols returns a copy of the table in index order.
func (v *Vocabulary) Symbols() []string {
	return append([]string(nil), v.symbols...)
}
