package transcript

import "strings"

// SearchOptions configures content search over recorded runs.
type SearchOptions struct {
	CaseSensitive bool
	MaxResults    int
	Node          string // restrict matches to one node's turns
}

// SearchResult is one matching turn.
type SearchResult struct {
	RunID   string `json:"runId"`
	TurnID  int    `json:"turnId"`
	Node    string `json:"node"`
	Field   string `json:"field"` // "prompt", "input", or "response"
	Snippet string `json:"snippet"`
}

// Searcher finds text across recorded transcripts and aggregates run
// statistics. Searches load each transcript in full; resume runs hold a
// handful of turns, so no index is kept.
type Searcher struct {
	store *FileStore
}

// NewSearcher creates a searcher over a transcript store.
func NewSearcher(store *FileStore) *Searcher {
	return &Searcher{store: store}
}

// Search scans every recorded run for query, newest first. Each matching
// turn yields one result per matched field; unreadable runs are skipped.
func (s *Searcher) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	metas, err := s.store.List(ListFilter{})
	if err != nil {
		return nil, err
	}

	match := matcher(query, opts.CaseSensitive)

	var results []SearchResult
	for _, meta := range metas {
		t, err := s.store.Load(meta.RunID)
		if err != nil {
			continue
		}

		for _, turn := range t.Turns {
			if opts.Node != "" && turn.Node != opts.Node {
				continue
			}

			fields := []struct {
				name string
				text string
			}{
				{"prompt", turn.Prompt},
				{"input", turn.Input},
				{"response", turn.Response},
			}
			for _, f := range fields {
				snippet, ok := match(f.text)
				if !ok {
					continue
				}
				results = append(results, SearchResult{
					RunID:   t.RunID,
					TurnID:  turn.ID,
					Node:    turn.Node,
					Field:   f.name,
					Snippet: snippet,
				})
				if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
					return results, nil
				}
			}
		}
	}

	return results, nil
}

// matcher returns a function that finds query in text and extracts the
// surrounding line as a snippet.
func matcher(query string, caseSensitive bool) func(string) (string, bool) {
	needle := query
	if !caseSensitive {
		needle = strings.ToLower(query)
	}

	return func(text string) (string, bool) {
		haystack := text
		if !caseSensitive {
			haystack = strings.ToLower(text)
		}
		idx := strings.Index(haystack, needle)
		if idx < 0 {
			return "", false
		}
		return lineAround(text, idx, len(needle)), true
	}
}

// lineAround returns the line containing text[idx:idx+n], trimmed.
func lineAround(text string, idx, n int) string {
	start := strings.LastIndexByte(text[:idx], '\n') + 1
	end := idx + n
	if nl := strings.IndexByte(text[end:], '\n'); nl >= 0 {
		end += nl
	} else {
		end = len(text)
	}
	return strings.TrimSpace(text[start:end])
}

// RunStats aggregates metadata over matching runs.
type RunStats struct {
	TotalRuns      int
	CompletedRuns  int
	PausedRuns     int
	FailedRuns     int
	ActiveRuns     int
	TotalTurns     int
	TotalTokensIn  int
	TotalTokensOut int
	AvgTokensIn    int
	AvgTokensOut   int
}

// Stats aggregates outcomes and token usage over runs matching filter.
func (s *Searcher) Stats(filter ListFilter) (*RunStats, error) {
	metas, err := s.store.List(filter)
	if err != nil {
		return nil, err
	}

	stats := &RunStats{}
	for _, m := range metas {
		stats.TotalRuns++
		stats.TotalTurns += m.TurnCount
		stats.TotalTokensIn += m.TotalTokensIn
		stats.TotalTokensOut += m.TotalTokensOut

		switch m.Status {
		case RunStatusCompleted:
			stats.CompletedRuns++
		case RunStatusPaused:
			stats.PausedRuns++
		case RunStatusFailed:
			stats.FailedRuns++
		case RunStatusRunning:
			stats.ActiveRuns++
		}
	}

	if stats.TotalRuns > 0 {
		stats.AvgTokensIn = stats.TotalTokensIn / stats.TotalRuns
		stats.AvgTokensOut = stats.TotalTokensOut / stats.TotalRuns
	}

	return stats, nil
}
