package backend

import (
	"context"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{"": Auto, " AUTO ": Auto, "onnx": ONNX, "Toy": Toy}
	for in, want := range cases {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := Normalize("cuda"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestResolveAuto(t *testing.T) {
	t.Parallel()

	got, err := Resolve(Options{ModelPath: "jp_cities_model.onnx"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := Toy
	if Has(ONNX) {
		want = ONNX
	}
	if got != want {
		t.Fatalf("Resolve(.onnx) = %q, want %q", got, want)
	}

	got, err = Resolve(Options{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != Toy {
		t.Fatalf("Resolve(no model) = %q, want %q", got, Toy)
	}
}

func TestNewLoaderToy(t *testing.T) {
	t.Parallel()

	load, err := NewLoader(Options{Backend: Toy, VocabSize: 27, BlockSize: 10})
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	e, err := load(context.Background())
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	defer e.Close()
	if e.VocabSize() != 27 {
		t.Fatalf("VocabSize() = %d, want 27", e.VocabSize())
	}
	logits, err := e.Infer(context.Background(), make([]int64, 10))
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	if len(logits) != 27 {
		t.Fatalf("len(logits) = %d, want 27", len(logits))
	}
}

func TestNewLoaderToyNeedsVocab(t *testing.T) {
	t.Parallel()

	load, err := NewLoader(Options{Backend: Toy})
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if _, err := load(context.Background()); err == nil {
		t.Fatal("expected error without vocabulary size")
	}
}

func TestNewLoaderONNXNeedsModel(t *testing.T) {
	t.Parallel()

	if _, err := NewLoader(Options{Backend: ONNX}); err == nil || !strings.Contains(err.Error(), "model path") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAvailable(t *testing.T) {
	t.Parallel()

	if !strings.Contains(Available(), Toy) {
		t.Fatalf("Available() = %q, want it to include %q", Available(), Toy)
	}
	if Has("cuda") {
		t.Fatal("Has(cuda) = true")
	}
}
