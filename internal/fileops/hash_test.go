// file: internal/fileops/hash_test.go
// version: 1.1.0
// guid: 2b3c4d5e-6f7a-8b9c-0d1e-2f3a4b5c6d7e

package fileops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestComputeFileHash(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")

	if err := os.WriteFile(testFile, []byte("Hello, World!"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	hash, err := ComputeFileHash(testFile)
	if err != nil {
		t.Fatalf("ComputeFileHash failed: %v", err)
	}

	// Known hash for "Hello, World!"
	expectedHash := "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
	if hash != expectedHash {
		t.Errorf("Hash mismatch:\nExpected: %s\nGot:      %s", expectedHash, hash)
	}
}

func TestComputeFileHash_MissingFile(t *testing.T) {
	if _, err := ComputeFileHash(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestVerifySameContent(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.m4b")
	b := filepath.Join(tmpDir, "b.m4b")
	c := filepath.Join(tmpDir, "c.m4b")
	for path, content := range map[string]string{a: "chapter one", b: "chapter one", c: "chapter two"} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	if err := VerifySameContent(a, b); err != nil {
		t.Errorf("expected identical files to verify, got %v", err)
	}
	if err := VerifySameContent(a, c); err == nil {
		t.Error("expected mismatch error")
	}
}
