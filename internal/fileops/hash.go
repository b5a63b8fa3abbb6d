// file: internal/fileops/hash.go
// version: 1.1.0
// guid: 0a1b2c3d-4e5f-6a7b-8c9d-0e1f2a3b4c5d

package fileops

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ComputeFileHash computes the SHA256 hash of a file
func ComputeFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifySameContent reports an error unless both files hash identically.
// Used after a plain copy to make sure the organized file matches its source.
func VerifySameContent(src, dst string) error {
	srcHash, err := ComputeFileHash(src)
	if err != nil {
		return fmt.Errorf("failed to hash source: %w", err)
	}
	dstHash, err := ComputeFileHash(dst)
	if err != nil {
		return fmt.Errorf("failed to hash destination: %w", err)
	}
	if srcHash != dstHash {
		return fmt.Errorf("checksum mismatch: %s != %s", srcHash, dstHash)
	}
	return nil
}
