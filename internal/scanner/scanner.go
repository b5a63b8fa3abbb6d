// file: internal/scanner/scanner.go
// version: 2.0.0
// guid: 2d3e4f5a-6b7c-8d9e-0f1a-2b3c4d5e6f7a

package scanner

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jdfalk/audiobook-librarian/internal/logger"
	"github.com/jdfalk/audiobook-librarian/internal/metadata"
	"github.com/jdfalk/audiobook-librarian/internal/metrics"
	"github.com/schollz/progressbar/v3"
)

// FolderResult is the outcome of scanning one book folder.
type FolderResult struct {
	Folder string
	// Metadata is valid only when OK is true.
	Metadata metadata.FolderMetadata
	OK       bool
	// Unreadable lists audio files whose tags could not be read.
	Unreadable []string
}

// Options tunes ScanFolders.
type Options struct {
	Workers  int
	Log      *logger.Logger
	Progress io.Writer // progress bar output; nil hides it
}

// FindBookFolders returns, sorted, every directory under root that directly
// holds audio and has no audio-holding ancestor below root's top level.
// Directories in skip (and everything beneath them) are ignored.
func FindBookFolders(ctx context.Context, root string, skip []string) ([]string, error) {
	root = filepath.Clean(root)
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if s != "" {
			skipped[filepath.Clean(s)] = true
		}
	}

	withAudio := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if path != root && skipped[path] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && metadata.IsAudioFile(path) {
			withAudio[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	dirs := make([]string, 0, len(withAudio))
	for dir := range withAudio {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var folders []string
	for _, dir := range dirs {
		if !hasAudioAncestor(dir, root, withAudio) {
			folders = append(folders, dir)
		}
	}
	return folders, nil
}

// hasAudioAncestor walks up from dir, stopping at root's direct children.
func hasAudioAncestor(dir, root string, withAudio map[string]bool) bool {
	cur := dir
	for cur != root && filepath.Dir(cur) != root {
		parent := filepath.Dir(cur)
		if parent == cur {
			return false
		}
		if withAudio[parent] {
			return true
		}
		cur = parent
	}
	return false
}

// ScanFolders reads every folder on a worker pool. Results come back in the
// order of folders; a canceled context stops new folders from starting.
func ScanFolders(ctx context.Context, folders []string, reader metadata.RecordReader, opts Options) ([]FolderResult, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	if reader == nil {
		reader = metadata.TagReader{}
	}

	log.Info("Scanning book folders", "folders", len(folders), "workers", workers)
	bar := newBar(len(folders), "Scanning", opts.Progress)

	results := make([]FolderResult, len(folders))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, folder := range folders {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return results, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return results, ctx.Err()
		case semaphore <- struct{}{}: // Acquire
		}

		wg.Add(1)
		go func(idx int, dir string) {
			defer wg.Done()
			defer func() {
				<-semaphore // Release
				bar.Add(1)
			}()
			results[idx] = scanFolder(dir, reader, log)
			metrics.IncFoldersScanned()
		}(i, folder)
	}

	wg.Wait()
	bar.Finish()
	return results, nil
}

func newBar(n int, desc string, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		return progressbar.DefaultSilent(int64(n), desc)
	}
	return progressbar.NewOptions64(int64(n),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func scanFolder(folder string, reader metadata.RecordReader, log *logger.Logger) FolderResult {
	result := FolderResult{Folder: folder}

	entries, err := os.ReadDir(folder)
	if err != nil {
		log.Warn("failed to read folder", "folder", folder, "error", err)
		return result
	}

	var audio, others []string
	opfPath := ""
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		switch {
		case metadata.IsAudioFile(name):
			audio = append(audio, filepath.Join(folder, name))
		default:
			if metadata.IsOPFFile(name) && opfPath == "" {
				opfPath = filepath.Join(folder, name)
			}
			others = append(others, name)
		}
	}
	sort.Strings(audio)

	var opf *metadata.Tags
	if opfPath != "" {
		tags, err := metadata.ParseOPF(opfPath)
		if err != nil {
			log.Warn("failed to parse OPF", "path", opfPath, "error", err)
		} else {
			opf = &tags
		}
	}

	records := make([]metadata.AudioFileRecord, 0, len(audio))
	for _, path := range audio {
		rec, err := reader.ReadRecord(path)
		if err != nil {
			log.Warn("Could not read audio tags", "path", path, "error", err)
			result.Unreadable = append(result.Unreadable, path)
			continue
		}
		records = append(records, rec)
	}

	result.Metadata, result.OK = metadata.BuildFolderMetadata(folder, records, opf, others)
	log.Debug("Scanned folder", "folder", folder, "audio", len(records), "unreadable", len(result.Unreadable))
	return result
}

// CollectFiles lists every regular file under the given folders, recursively
// and sorted. It is the universe the leftbehind sweep works from.
func CollectFiles(folders []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, folder := range folders {
		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", folder, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
