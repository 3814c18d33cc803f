// Package checkpoint provides durable graph.Saver implementations.
//
// The engine's in-memory saver covers tests and single-process runs; these
// savers cover everything that must survive the process:
//   - FileSaver: one JSON file per thread under a directory
//   - PostgresSaver: a checkpoints table keyed by thread ID
//
// Both store the full state snapshot; resuming a thread reads it back,
// applies the caller's patch, and writes the result before execution
// continues.
package checkpoint
