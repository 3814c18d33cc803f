package graph

import "context"

// Context is the execution context passed to every node and router.
// It carries the caller's context.Context (so service injection and
// cancellation flow through unchanged) plus engine metadata about the
// current position in the run.
type Context interface {
	context.Context

	// Thread returns the workflow thread ID for this run.
	Thread() string

	// Node returns the name of the node currently executing.
	Node() string

	// Step returns the zero-based count of nodes executed so far
	// in this run.
	Step() int
}

type execContext struct {
	context.Context
	thread string
	node   string
	step   int
}

func (c execContext) Thread() string { return c.thread }
func (c execContext) Node() string   { return c.node }
func (c execContext) Step() int      { return c.step }

// at returns a copy positioned at the given node and step.
func (c execContext) at(node string, step int) execContext {
	c.node = node
	c.step = step
	return c
}

// NewContext wraps a context.Context as a graph.Context. It is intended
// for calling nodes directly, outside a compiled graph (typically tests).
func NewContext(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return execContext{Context: ctx}
}

func newExecContext(ctx context.Context, thread string) execContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return execContext{Context: ctx, thread: thread}
}
