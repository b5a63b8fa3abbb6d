// file: internal/report/tree.go
// version: 1.0.0
// guid: 93a6d1f7-2e08-4c5b-b7f4-18e05c9a2d63

package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteTree writes an `ls -R` style listing of dir: each directory as a
// "path:" header followed by its sorted entries, then its subdirectories
// depth first. Hidden entries are skipped and symlinks are not followed.
func WriteTree(dir string, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := writeTreeDir(bw, dir, true); err != nil {
		return err
	}
	return bw.Flush()
}

func writeTreeDir(w *bufio.Writer, dir string, first bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	if !first {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s:\n", dir)

	var subdirs []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		fmt.Fprintln(w, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, e.Name()))
		}
	}
	for _, sub := range subdirs {
		if err := writeTreeDir(w, sub, false); err != nil {
			return err
		}
	}
	return nil
}

// WriteTreeFile writes the listing of dir to path.
func WriteTreeFile(dir, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create listing directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	if err := WriteTree(dir, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
