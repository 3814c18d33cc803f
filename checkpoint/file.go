package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/randalmurphal/resumeflow/graph"
)

// FileSaver stores checkpoints as JSON files, one per thread, under a
// directory. Thread IDs are sanitized into filenames; the original ID lives
// inside the file, so List reports exact IDs.
type FileSaver[S any] struct {
	dir string
	mu  sync.RWMutex
}

// NewFileSaver creates the directory if needed and returns a saver over it.
func NewFileSaver[S any](dir string) (*FileSaver[S], error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &FileSaver[S]{dir: dir}, nil
}

// Put writes or replaces the thread's checkpoint file.
func (f *FileSaver[S]) Put(ctx context.Context, cp graph.Checkpoint[S]) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint %s: %w", cp.Thread, err)
	}
	if err := os.WriteFile(f.path(cp.Thread), data, 0644); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", cp.Thread, err)
	}
	return nil
}

// Get reads the thread's checkpoint, or graph.ErrNotFound.
func (f *FileSaver[S]) Get(ctx context.Context, threadID string) (graph.Checkpoint[S], error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(threadID))
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Checkpoint[S]{}, graph.ErrNotFound
		}
		return graph.Checkpoint[S]{}, fmt.Errorf("read checkpoint %s: %w", threadID, err)
	}

	var cp graph.Checkpoint[S]
	if err := json.Unmarshal(data, &cp); err != nil {
		return graph.Checkpoint[S]{}, fmt.Errorf("decode checkpoint %s: %w", threadID, err)
	}
	return cp, nil
}

// Delete removes the thread's checkpoint file. Missing files are not an
// error.
func (f *FileSaver[S]) Delete(ctx context.Context, threadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(threadID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete checkpoint %s: %w", threadID, err)
	}
	return nil
}

// List returns the thread IDs with stored checkpoints, sorted.
func (f *FileSaver[S]) List(ctx context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.dir, entry.Name()))
		if err != nil {
			continue
		}
		// Only the thread field matters here; skip files that are not
		// checkpoints.
		var header struct {
			Thread string `json:"thread"`
		}
		if err := json.Unmarshal(data, &header); err != nil || header.Thread == "" {
			continue
		}
		ids = append(ids, header.Thread)
	}
	sort.Strings(ids)
	return ids, nil
}

// Dir returns the directory backing the saver.
func (f *FileSaver[S]) Dir() string {
	return f.dir
}

func (f *FileSaver[S]) path(threadID string) string {
	return filepath.Join(f.dir, sanitizeThreadID(threadID)+".json")
}

// sanitizeThreadID maps a thread ID to a safe filename.
func sanitizeThreadID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
