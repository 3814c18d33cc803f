// Package transcript records the model exchanges made during workflow runs.
//
// Core types:
//   - Transcript: every exchange from one run, with token totals
//   - Turn: a single request/response pair made by a workflow node
//   - Manager: interface for transcript lifecycle management
//   - FileStore: file-based storage under <dir>/runs/<runID>/
//   - Viewer: terminal display and markdown/JSON export
//
// A run that pauses for human feedback is persisted with status "paused";
// ResumeRun reloads it so the next execution appends to the same record.
//
// Example usage:
//
//	store, err := transcript.NewFileStore(".resumeflow/transcripts")
//	runID := transcript.NewRunID()
//	err = store.StartRun(runID, transcript.RunMetadata{
//	    Thread:   "thr_V1StGXR8_Z5jdHi6B-myT",
//	    Workflow: "resume-pipeline",
//	})
//	err = store.RecordTurn(runID, transcript.Turn{
//	    Node:     "draft_resume",
//	    Model:    "gemini-2.5-flash",
//	    Response: "Jane Doe\nSenior Engineer...",
//	})
//	err = store.EndRun(runID, transcript.RunStatusCompleted)
package transcript
