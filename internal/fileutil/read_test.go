package fileutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"

	coreerrors "github.com/sekai-tl/sekai-core/core/errors"
)

func TestReadInputPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene1.ks")
	want := []byte("<Yuki>\"Good morning\"\n[cm]\n")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadInput(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ReadInput = %q, want %q", got, want)
	}
}

func TestReadInputXZ(t *testing.T) {
	want := []byte("compressed script body \x82\xB1")
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(want); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "scene1.ks.xz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadInput(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("ReadInput = %q, want %q", got, want)
	}
}

func TestReadInputErrors(t *testing.T) {
	if _, err := ReadInput(""); !errors.Is(err, coreerrors.ErrInvalidInput) {
		t.Errorf("empty path should be invalid input, got %v", err)
	}

	if _, err := ReadInput(filepath.Join(t.TempDir(), "missing.ks")); err == nil {
		t.Error("missing file should error")
	}

	// Garbage with an .xz suffix fails at header parse, not read.
	path := filepath.Join(t.TempDir(), "junk.xz")
	if err := os.WriteFile(path, []byte("not xz"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadInput(path); err == nil {
		t.Error("corrupt xz should error")
	}
}
