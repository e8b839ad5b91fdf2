package tablebase

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	var dir1, dir2 = t.TempDir(), t.TempDir()
	for _, f := range []string{
		filepath.Join(dir1, "KQvK.rtbw"),
		filepath.Join(dir1, "KQvK.rtbz"),
		filepath.Join(dir2, "KRPvKR.rtbw"),
		filepath.Join(dir2, "readme.txt"),
		filepath.Join(dir2, "KQQQQQvK.bin"),
	} {
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	var d, err = Open(dir1 + string(os.PathListSeparator) + dir2)
	if err != nil {
		t.Fatal(err)
	}
	if d.TableMaxPieces() != 5 {
		t.Error("table max pieces", d.TableMaxPieces())
	}
	if d.MaxPieces() != 0 {
		t.Error("max pieces", d.MaxPieces())
	}
	if d.TableCount() != 3 {
		t.Error("table count", d.TableCount())
	}
}

func TestOpenMissingDir(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error")
	}
}

func TestSignaturePieces(t *testing.T) {
	var tests = []struct {
		name   string
		pieces int
		ok     bool
	}{
		{"KvK", 2, true},
		{"KRPvKR", 5, true},
		{"KQRvKNN", 6, true},
		{"QvK", 0, false},
		{"KQK", 0, false},
		{"KXvK", 0, false},
	}
	for _, tt := range tests {
		var pieces, ok = signaturePieces(tt.name)
		if pieces != tt.pieces || ok != tt.ok {
			t.Error(tt.name, pieces, ok)
		}
	}
}
