package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const pollInterval = 500 * time.Millisecond

var recordingExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".webm": true,
}

// FileSource polls a directory for dropped recordings and feeds each new
// file to the assistant once. Handled files get a ".processed" suffix so a
// restart does not replay them.
type FileSource struct {
	dir  string
	seen map[string]bool
	mu   sync.Mutex
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{
		dir:  dir,
		seen: make(map[string]bool),
	}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Start(_ context.Context) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("creating audio dir: %w", err)
	}
	return nil
}

func (f *FileSource) Stop() error {
	return nil
}

func (f *FileSource) NextCommand(ctx context.Context) ([]byte, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			data, err := f.nextRecording()
			if err != nil {
				return nil, err
			}
			if data != nil {
				return data, nil
			}
		}
	}
}

func (f *FileSource) nextRecording() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !recordingExts[filepath.Ext(entry.Name())] {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		if f.seen[path] {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", path, err)
		}

		// The in-memory guard covers the case where the rename fails on a
		// read-only mount.
		f.seen[path] = true
		os.Rename(path, path+".processed")

		return data, nil
	}

	return nil, nil
}
