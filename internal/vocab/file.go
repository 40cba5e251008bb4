package vocab

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a vocabulary from a YAML or JSON file. Two layouts are
// accepted: a plain list of symbols in index order, or a mapping from index
// to symbol. A mapping must cover every index from 0 to its largest key.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes a vocabulary document. See LoadFile for the accepted layouts.
func Parse(data []byte) (*Vocabulary, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, ErrEmpty
	}
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var symbols []string
		if err := root.Decode(&symbols); err != nil {
			return nil, err
		}
		return New(symbols)
	case yaml.MappingNode:
		var table map[string]string
		if err := root.Decode(&table); err != nil {
			return nil, err
		}
		return fromTable(table)
	default:
		return nil, fmt.Errorf("expected a list or a mapping of symbols")
	}
}

// fromTable converts an index-keyed table, as exported alongside the
// original model (keys are strings in JSON), into a dense slice.
func fromTable(table map[string]string) (*Vocabulary, error) {
	if len(table) == 0 {
		return nil, ErrEmpty
	}
	byIndex := make(map[int]string, len(table))
	keys := make([]int, 0, len(table))
	for k, sym := range table {
		ix, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", k, err)
		}
		if _, dup := byIndex[ix]; dup {
			return nil, fmt.Errorf("duplicate index %d", ix)
		}
		byIndex[ix] = sym
		keys = append(keys, ix)
	}
	sort.Ints(keys)
	symbols := make([]string, len(keys))
	for i, k := range keys {
		if k != i {
			return nil, fmt.Errorf("index %d missing from mapping", i)
		}
		symbols[i] = byIndex[k]
	}
	return New(symbols)
}
