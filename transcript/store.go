package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileStore stores transcripts as files
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
	active  map[string]*Transcript
}

// NewFileStore creates a file-based transcript store
func NewFileStore(baseDir string) (*FileStore, error) {
	runsDir := filepath.Join(baseDir, "runs")
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return nil, err
	}

	return &FileStore{
		baseDir: baseDir,
		active:  make(map[string]*Transcript),
	}, nil
}

// StartRun begins a new transcript
func (s *FileStore) StartRun(runID string, meta RunMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.active[runID]; exists {
		return ErrRunAlreadyExists
	}

	// Check if run already exists on disk
	runDir := filepath.Join(s.baseDir, "runs", runID)
	if _, err := os.Stat(runDir); err == nil {
		return ErrRunAlreadyExists
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	t := NewTranscript(runID, meta)

	// Write initial metadata
	if err := s.writeMetadata(runID, &t.Metadata); err != nil {
		return err
	}

	s.active[runID] = t
	return nil
}

// ResumeRun reloads a paused transcript from disk so new turns can be
// appended. The paused status and end time are cleared; turn IDs continue
// where the previous execution stopped.
func (s *FileStore) ResumeRun(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.active[runID]; exists {
		return ErrRunAlreadyExists
	}

	t, err := Load(s.baseDir, runID)
	if err != nil {
		return err
	}

	t.Metadata.Status = RunStatusRunning
	t.Metadata.EndedAt = time.Time{}

	if err := s.writeMetadata(runID, &t.Metadata); err != nil {
		return err
	}

	s.active[runID] = t
	return nil
}

// RecordTurn adds a turn to an active transcript
func (s *FileStore) RecordTurn(runID string, turn Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.active[runID]
	if !ok {
		return ErrRunNotStarted
	}

	t.AddTurn(turn)
	return nil
}

// EndRun completes a transcript and persists the full record.
func (s *FileStore) EndRun(runID string, status RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.active[runID]
	if !ok {
		return ErrRunNotStarted
	}

	t.Metadata.Status = status
	t.Metadata.EndedAt = time.Now()

	return s.finish(runID, t)
}

// EndRunWithError completes a transcript with an error
func (s *FileStore) EndRunWithError(runID string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.active[runID]
	if !ok {
		return ErrRunNotStarted
	}

	t.Fail(err)
	return s.finish(runID, t)
}

// finish persists the transcript and drops it from the active set.
// Caller holds the lock.
func (s *FileStore) finish(runID string, t *Transcript) error {
	if err := t.Save(s.baseDir); err != nil {
		return err
	}
	if err := s.writeMetadata(runID, &t.Metadata); err != nil {
		return err
	}
	delete(s.active, runID)
	return nil
}

// Load retrieves a complete transcript
func (s *FileStore) Load(runID string) (*Transcript, error) {
	// Check if it's an active run
	s.mu.RLock()
	if t, ok := s.active[runID]; ok {
		defer s.mu.RUnlock()
		// Return a copy to prevent concurrent modification
		data, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		var cp Transcript
		if err := json.Unmarshal(data, &cp); err != nil {
			return nil, err
		}
		return &cp, nil
	}
	s.mu.RUnlock()

	return Load(s.baseDir, runID)
}

// LoadMetadata retrieves just the metadata
func (s *FileStore) LoadMetadata(runID string) (*Meta, error) {
	// Check if it's an active run
	s.mu.RLock()
	if t, ok := s.active[runID]; ok {
		meta := t.Metadata
		s.mu.RUnlock()
		return &meta, nil
	}
	s.mu.RUnlock()

	path := filepath.Join(s.baseDir, "runs", runID, "metadata.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// List returns metadata for runs matching filter
func (s *FileStore) List(filter ListFilter) ([]Meta, error) {
	runsDir := filepath.Join(s.baseDir, "runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var results []Meta

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}

		// Apply filters
		if filter.Workflow != "" && meta.Workflow != filter.Workflow {
			continue
		}
		if filter.Thread != "" && meta.Thread != filter.Thread {
			continue
		}
		if filter.Status != "" && meta.Status != filter.Status {
			continue
		}
		if !filter.After.IsZero() && meta.StartedAt.Before(filter.After) {
			continue
		}
		if !filter.Before.IsZero() && meta.StartedAt.After(filter.Before) {
			continue
		}

		results = append(results, *meta)
	}

	// Sort by start time (newest first)
	sort.Slice(results, func(i, j int) bool {
		return results[i].StartedAt.After(results[j].StartedAt)
	})

	// Apply limit
	if filter.Limit > 0 && len(results) > filter.Limit {
		results = results[:filter.Limit]
	}

	return results, nil
}

// Delete removes a run
func (s *FileStore) Delete(runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Remove from active if present
	delete(s.active, runID)

	runDir := filepath.Join(s.baseDir, "runs", runID)
	if err := os.RemoveAll(runDir); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// GetActive returns an active transcript (for monitoring)
func (s *FileStore) GetActive(runID string) (*Transcript, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.active[runID]
	if !ok {
		return nil, false
	}

	return t, true
}

// ListActive returns all active run IDs
func (s *FileStore) ListActive() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.active))
	for id := range s.active {
		ids = append(ids, id)
	}
	return ids
}

func (s *FileStore) writeMetadata(runID string, meta *Meta) error {
	path := filepath.Join(s.baseDir, "runs", runID, "metadata.json")
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BaseDir returns the base directory for the store
func (s *FileStore) BaseDir() string {
	return s.baseDir
}
