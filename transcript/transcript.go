package transcript

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Transcript errors
var (
	ErrRunNotFound      = errors.New("run not found")
	ErrRunAlreadyExists = errors.New("run already exists")
	ErrRunNotStarted    = errors.New("run not started")
)

// RunStatus indicates the status of a run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusPaused    RunStatus = "paused"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Transcript records every model exchange made during one workflow run.
type Transcript struct {
	RunID    string `json:"runId"`
	Metadata Meta   `json:"metadata"`
	Turns    []Turn `json:"turns"`
}

// Meta contains run metadata
type Meta struct {
	RunID          string    `json:"runId,omitempty"`
	Thread         string    `json:"thread,omitempty"`
	Workflow       string    `json:"workflow"`
	StartedAt      time.Time `json:"startedAt"`
	EndedAt        time.Time `json:"endedAt,omitempty"`
	Status         RunStatus `json:"status"`
	TotalTokensIn  int       `json:"totalTokensIn"`
	TotalTokensOut int       `json:"totalTokensOut"`
	TurnCount      int       `json:"turnCount"`
	Error          string    `json:"error,omitempty"`
}

// Turn records one complete model exchange made by a workflow node.
type Turn struct {
	ID         int       `json:"id"`
	Node       string    `json:"node"`
	Model      string    `json:"model,omitempty"`
	Prompt     string    `json:"prompt,omitempty"`
	Input      string    `json:"input,omitempty"`
	Response   string    `json:"response"`
	TokensIn   int       `json:"tokensIn,omitempty"`
	TokensOut  int       `json:"tokensOut,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"durationMs,omitempty"`
}

// RunMetadata is input for starting a new run
type RunMetadata struct {
	Thread   string
	Workflow string
}

// NewRunID generates a unique run identifier.
func NewRunID() string {
	id, err := nanoid.New()
	if err != nil {
		panic(err)
	}
	return "run_" + id
}

// NewTranscript creates a new transcript
func NewTranscript(runID string, meta RunMetadata) *Transcript {
	return &Transcript{
		RunID: runID,
		Metadata: Meta{
			RunID:     runID,
			Thread:    meta.Thread,
			Workflow:  meta.Workflow,
			StartedAt: time.Now(),
			Status:    RunStatusRunning,
		},
		Turns: make([]Turn, 0),
	}
}

// AddTurn appends a turn, assigning its ID and updating token totals.
func (t *Transcript) AddTurn(turn Turn) *Turn {
	turn.ID = len(t.Turns) + 1
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	t.Metadata.TotalTokensIn += turn.TokensIn
	t.Metadata.TotalTokensOut += turn.TokensOut

	t.Turns = append(t.Turns, turn)
	t.Metadata.TurnCount = len(t.Turns)
	return &t.Turns[len(t.Turns)-1]
}

// Complete marks the transcript as completed
func (t *Transcript) Complete() {
	t.Metadata.Status = RunStatusCompleted
	t.Metadata.EndedAt = time.Now()
}

// Fail marks the transcript as failed
func (t *Transcript) Fail(err error) {
	t.Metadata.Status = RunStatusFailed
	t.Metadata.EndedAt = time.Now()
	if err != nil {
		t.Metadata.Error = err.Error()
	}
}

// Pause marks the transcript as paused, awaiting human feedback.
func (t *Transcript) Pause() {
	t.Metadata.Status = RunStatusPaused
	t.Metadata.EndedAt = time.Now()
}

// Duration returns the run duration
func (t *Transcript) Duration() time.Duration {
	if t.Metadata.EndedAt.IsZero() {
		return time.Since(t.Metadata.StartedAt)
	}
	return t.Metadata.EndedAt.Sub(t.Metadata.StartedAt)
}

// IsActive returns true if the run is still in progress
func (t *Transcript) IsActive() bool {
	return t.Metadata.Status == RunStatusRunning
}

// LastTurn returns the last turn or nil
func (t *Transcript) LastTurn() *Turn {
	if len(t.Turns) == 0 {
		return nil
	}
	return &t.Turns[len(t.Turns)-1]
}

// TurnsByNode returns all turns recorded by the given node
func (t *Transcript) TurnsByNode(node string) []Turn {
	var result []Turn
	for _, turn := range t.Turns {
		if turn.Node == node {
			result = append(result, turn)
		}
	}
	return result
}

// compressionThreshold is the size above which transcripts are compressed
const compressionThreshold = 100 * 1024 // 100KB

// Save writes the transcript to disk
func (t *Transcript) Save(baseDir string) error {
	runDir := filepath.Join(baseDir, "runs", t.RunID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}

	// Compress if large
	if len(data) > compressionThreshold {
		return t.saveCompressed(runDir, data)
	}

	// Remove compressed version if it exists
	os.Remove(filepath.Join(runDir, "transcript.json.gz"))

	return os.WriteFile(filepath.Join(runDir, "transcript.json"), data, 0644)
}

func (t *Transcript) saveCompressed(runDir string, data []byte) error {
	// Remove uncompressed version if it exists
	os.Remove(filepath.Join(runDir, "transcript.json"))

	f, err := os.Create(filepath.Join(runDir, "transcript.json.gz"))
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	_, err = gz.Write(data)
	return err
}

// Load loads a transcript from disk
func Load(baseDir, runID string) (*Transcript, error) {
	runDir := filepath.Join(baseDir, "runs", runID)

	// Try compressed first
	data, err := loadCompressed(filepath.Join(runDir, "transcript.json.gz"))
	if err != nil {
		// Try uncompressed
		data, err = os.ReadFile(filepath.Join(runDir, "transcript.json"))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, ErrRunNotFound
			}
			return nil, err
		}
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

func loadCompressed(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	return io.ReadAll(gz)
}
