package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Viewer renders transcripts for terminal display and export.
type Viewer struct{}

// NewViewer creates a viewer
func NewViewer() *Viewer {
	return &Viewer{}
}

// ViewFull displays the complete transcript
func (v *Viewer) ViewFull(w io.Writer, t *Transcript) error {
	v.writeHeader(w, t)

	for _, turn := range t.Turns {
		v.writeTurn(w, turn)
	}

	return nil
}

// ViewSummary displays a brief summary
func (v *Viewer) ViewSummary(w io.Writer, t *Transcript) error {
	v.writeHeader(w, t)

	fmt.Fprintln(w, "\nTurn Summary:")
	for _, turn := range t.Turns {
		preview := turn.Response
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		preview = strings.ReplaceAll(preview, "\n", " ")
		fmt.Fprintf(w, "  [%d] %s: %s\n", turn.ID, turn.Node, preview)
	}

	return nil
}

// ViewTurn displays a single turn
func (v *Viewer) ViewTurn(w io.Writer, turn Turn) error {
	v.writeTurn(w, turn)
	return nil
}

func (v *Viewer) writeHeader(w io.Writer, t *Transcript) {
	sep := strings.Repeat("=", 60)

	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "Run: %s\n", t.RunID)
	fmt.Fprintf(w, "Workflow: %s | Status: %s\n", t.Metadata.Workflow, t.Metadata.Status)
	if t.Metadata.Thread != "" {
		fmt.Fprintf(w, "Thread: %s\n", t.Metadata.Thread)
	}

	duration := t.Duration()
	fmt.Fprintf(w, "Started: %s | Duration: %s\n",
		t.Metadata.StartedAt.Format("2006-01-02 15:04:05"),
		duration.Round(time.Second))

	fmt.Fprintf(w, "Tokens: %d in / %d out\n",
		t.Metadata.TotalTokensIn,
		t.Metadata.TotalTokensOut)

	if t.Metadata.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", t.Metadata.Error)
	}

	fmt.Fprintln(w, sep)
}

func (v *Viewer) writeTurn(w io.Writer, turn Turn) {
	fmt.Fprintln(w)

	// Turn header
	header := fmt.Sprintf("[%d] %s (%s)",
		turn.ID,
		turn.Node,
		turn.Timestamp.Format("15:04:05"))

	if turn.Model != "" {
		header += fmt.Sprintf(" [%s]", turn.Model)
	}
	if turn.TokensIn > 0 || turn.TokensOut > 0 {
		header += fmt.Sprintf(" [%d in / %d out]", turn.TokensIn, turn.TokensOut)
	}
	if turn.DurationMs > 0 {
		header += fmt.Sprintf(" [%dms]", turn.DurationMs)
	}

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	fmt.Fprintln(w, turn.Response)
}

// ExportMarkdown exports to markdown format
func (v *Viewer) ExportMarkdown(w io.Writer, t *Transcript) error {
	fmt.Fprintf(w, "# Transcript: %s\n\n", t.RunID)

	// Metadata
	fmt.Fprintf(w, "## Metadata\n\n")
	fmt.Fprintf(w, "| Field | Value |\n")
	fmt.Fprintf(w, "|-------|-------|\n")
	fmt.Fprintf(w, "| Workflow | %s |\n", t.Metadata.Workflow)
	if t.Metadata.Thread != "" {
		fmt.Fprintf(w, "| Thread | %s |\n", t.Metadata.Thread)
	}
	fmt.Fprintf(w, "| Status | %s |\n", t.Metadata.Status)
	fmt.Fprintf(w, "| Started | %s |\n", t.Metadata.StartedAt.Format(time.RFC3339))
	if !t.Metadata.EndedAt.IsZero() {
		fmt.Fprintf(w, "| Ended | %s |\n", t.Metadata.EndedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "| Duration | %s |\n", t.Duration().Round(time.Second))
	fmt.Fprintf(w, "| Tokens In | %d |\n", t.Metadata.TotalTokensIn)
	fmt.Fprintf(w, "| Tokens Out | %d |\n", t.Metadata.TotalTokensOut)
	if t.Metadata.Error != "" {
		fmt.Fprintf(w, "| Error | %s |\n", t.Metadata.Error)
	}
	fmt.Fprintln(w)

	// Exchanges
	fmt.Fprintf(w, "## Exchanges\n\n")

	for _, turn := range t.Turns {
		fmt.Fprintf(w, "### Turn %d: `%s`\n\n", turn.ID, turn.Node)

		if turn.Model != "" {
			fmt.Fprintf(w, "*%s, %d tokens in / %d tokens out*\n\n",
				turn.Model, turn.TokensIn, turn.TokensOut)
		}

		if turn.Prompt != "" {
			fmt.Fprintf(w, "**System:**\n\n```\n%s\n```\n\n", turn.Prompt)
		}
		if turn.Input != "" {
			fmt.Fprintf(w, "**Input:**\n\n```\n%s\n```\n\n", turn.Input)
		}
		fmt.Fprintf(w, "**Response:**\n\n%s\n\n", turn.Response)
	}

	return nil
}

// ExportJSON exports to JSON format
func (v *Viewer) ExportJSON(w io.Writer, t *Transcript) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(t)
}

// FormatMetaList formats a list of metadata for display
func (v *Viewer) FormatMetaList(w io.Writer, metas []Meta) error {
	if len(metas) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}

	// Header
	fmt.Fprintf(w, "%-30s %-26s %-11s %-17s %12s %6s\n",
		"RUN ID", "THREAD", "STATUS", "STARTED", "TOKENS", "TURNS")
	fmt.Fprintln(w, strings.Repeat("-", 108))

	for _, m := range metas {
		tokens := fmt.Sprintf("%d/%d", m.TotalTokensIn, m.TotalTokensOut)

		fmt.Fprintf(w, "%-30s %-26s %-11s %-17s %12s %6d\n",
			truncate(m.RunID, 30),
			truncate(m.Thread, 26),
			m.Status,
			m.StartedAt.Format("2006-01-02 15:04"),
			tokens,
			m.TurnCount)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(metas))
	return nil
}

// truncate shortens a string to max length
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
