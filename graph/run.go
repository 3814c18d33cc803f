package graph

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/resumeflow/notify"
)

// Result is the outcome of Invoke or Resume: either a paused handle
// (Interrupted true, Next holding the pending node) or a completed run
// whose State is final. On node or routing failures the accompanying
// Result still carries the state as of the last successful merge.
type Result[S any] struct {
	State       S
	Thread      string
	Next        string
	Step        int
	Interrupted bool
}

type runOptions struct {
	thread string
}

// RunOption configures a single Invoke.
type RunOption func(*runOptions)

// WithThread pins the thread ID for a run. Required when the caller wants
// to resume later under a known identifier; otherwise a fresh ID is
// generated.
func WithThread(id string) RunOption {
	return func(o *runOptions) {
		o.thread = id
	}
}

// Run executes the graph to completion and returns the final state. It is
// the one-shot entry point for graphs without interruption points; hitting
// an interrupt fails with ErrInterrupted. On failure the returned state is
// the last successfully merged state.
func (r *Runnable[S]) Run(ctx context.Context, initial S) (S, error) {
	res, err := r.Invoke(ctx, initial)
	if err != nil {
		if res != nil {
			return res.State, err
		}
		return initial, err
	}
	if res.Interrupted {
		return res.State, fmt.Errorf("%w before node %q: drive this graph with Invoke and Resume", ErrInterrupted, res.Next)
	}
	return res.State, nil
}

// Invoke starts a new workflow thread from the entry node. It returns a
// paused Result when execution reaches an interruption point (after
// persisting a checkpoint), or the final Result when the graph reaches
// graph.END.
func (r *Runnable[S]) Invoke(ctx context.Context, initial S, opts ...RunOption) (*Result[S], error) {
	var cfg runOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	thread := cfg.thread
	if thread == "" {
		id, err := nanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generate thread id: %w", err)
		}
		thread = "thr_" + id
	}

	slog.Info("graph run started", "thread", thread, "entry", r.entry)
	r.emit(ctx, notify.EventRunStarted, thread, r.entry, 0, "run started")

	return r.execute(ctx, thread, initial, r.entry, 0, false)
}

// Resume continues a paused thread from its checkpoint. The patch, if
// non-nil, is applied to the checkpointed state first and the updated
// checkpoint is written back, so a later failure resumes from the patched
// snapshot. The interrupted node then executes as if the patched state had
// been present all along.
func (r *Runnable[S]) Resume(ctx context.Context, threadID string, patch func(S) S) (*Result[S], error) {
	if r.saver == nil {
		return nil, fmt.Errorf("graph has no checkpointer; nothing to resume")
	}

	cp, err := r.saver.Get(ctx, threadID)
	if err != nil {
		return nil, &CheckpointError{Op: "load", Thread: threadID, Err: err}
	}

	if patch != nil {
		cp.State = patch(cp.State)
		cp.SavedAt = time.Now()
		if err := r.saver.Put(ctx, cp); err != nil {
			return nil, &CheckpointError{Op: "save", Thread: threadID, Err: err}
		}
	}

	slog.Info("graph run resumed", "thread", threadID, "node", cp.Next, "step", cp.Step)
	r.emit(ctx, notify.EventRunResumed, threadID, cp.Next, cp.Step, "resumed before "+cp.Next)

	return r.execute(ctx, threadID, cp.State, cp.Next, cp.Step, true)
}

// execute is the interpreter loop. resumed suppresses the interrupt check
// for the first node only; revisiting an interruption point later in the
// same run pauses again.
func (r *Runnable[S]) execute(ctx context.Context, thread string, state S, current string, step int, resumed bool) (*Result[S], error) {
	base := newExecContext(ctx, thread)

	for current != END {
		if r.interrupts[current] && !resumed {
			cp := Checkpoint[S]{
				Thread:  thread,
				Next:    current,
				Step:    step,
				State:   state,
				SavedAt: time.Now(),
			}
			if err := r.saver.Put(ctx, cp); err != nil {
				return r.partial(state, thread, current, step),
					&CheckpointError{Op: "save", Thread: thread, Err: err}
			}
			slog.Info("graph run paused", "thread", thread, "node", current, "step", step)
			r.emit(ctx, notify.EventRunPaused, thread, current, step, "paused before "+current)
			res := r.partial(state, thread, current, step)
			res.Interrupted = true
			return res, nil
		}
		resumed = false

		out, err := r.runNode(base, current, state, step)
		if err != nil {
			r.emit(ctx, notify.EventRunFailed, thread, current, step, err.Error())
			return r.partial(state, thread, current, step), err
		}
		state = out
		step++

		next, merged, executed, err := r.transition(base, current, state, step)
		if err != nil {
			r.emit(ctx, notify.EventRunFailed, thread, current, step, err.Error())
			return r.partial(merged, thread, current, step), err
		}
		state = merged
		step += executed
		current = next
	}

	if r.saver != nil {
		// The thread is finished; its snapshot has no further use.
		if err := r.saver.Delete(ctx, thread); err != nil {
			slog.Warn("checkpoint delete failed", "thread", thread, "error", err)
		}
	}
	slog.Info("graph run completed", "thread", thread, "steps", step)
	r.emit(ctx, notify.EventRunCompleted, thread, "", step, "run completed")

	return &Result[S]{State: state, Thread: thread, Next: END, Step: step}, nil
}

// runNode executes one node body, wrapping failures as NodeError with the
// pre-node state attached (the failed node's partial update is discarded).
func (r *Runnable[S]) runNode(base execContext, name string, state S, step int) (S, error) {
	r.emit(base, notify.EventNodeStarted, base.thread, name, step, "")
	start := time.Now()

	out, err := r.nodes[name](base.at(name, step), state)
	if err != nil {
		r.emit(base, notify.EventNodeFailed, base.thread, name, step, err.Error())
		return state, &NodeError{Node: name, State: state, Err: err}
	}

	slog.Debug("node completed", "thread", base.thread, "node", name, "step", step, "duration", time.Since(start))
	r.emit(base, notify.EventNodeCompleted, base.thread, name, step, "")
	return out, nil
}

// transition resolves the outgoing edge of current. For fan-out edges it
// runs all branches to the join barrier and returns the merged state along
// with the number of branch nodes executed.
func (r *Runnable[S]) transition(base execContext, current string, state S, step int) (next string, merged S, executed int, err error) {
	e := r.edges[current]
	switch e.kind {
	case edgeStatic:
		return e.to, state, 0, nil

	case edgeConditional:
		name := e.router(base.at(current, step), state)
		if !slices.Contains(e.successors, name) {
			return "", state, 0, &RoutingError{Node: current, Returned: name, Allowed: e.successors}
		}
		slog.Debug("conditional route", "thread", base.thread, "node", current, "next", name)
		return name, state, 0, nil

	case edgeFanOut:
		merged, executed, err = r.runBranches(base, current, e, state, step)
		if err != nil {
			return "", merged, executed, err
		}
		return e.join, merged, executed, nil
	}
	return "", state, 0, fmt.Errorf("node %q has an unknown edge kind", current)
}

// runBranches dispatches one goroutine per Send and blocks until every
// branch has completed and merged. The join is a hard barrier: no state
// flows past it while any branch is in flight. Merges are serialized under
// a mutex so accumulator appends from concurrent branches are never lost.
func (r *Runnable[S]) runBranches(base execContext, from string, e edge[S], state S, step int) (S, int, error) {
	sends := e.fanOut(base.at(from, step), state)
	for _, send := range sends {
		if !slices.Contains(e.targets, send.Node) {
			return state, 0, &RoutingError{Node: from, Returned: send.Node, Allowed: e.targets}
		}
	}
	slog.Debug("fan-out", "thread", base.thread, "node", from, "branches", len(sends), "join", e.join)

	var (
		mu       sync.Mutex
		global   = state
		executed int
	)

	eg, ectx := errgroup.WithContext(base)
	for _, send := range sends {
		eg.Go(func() error {
			bctx := newExecContext(ectx, base.thread)
			cur := send.Node
			bstate := send.State
			for {
				out, err := r.nodes[cur](bctx.at(cur, step), bstate)
				if err != nil {
					mu.Lock()
					snap := global
					mu.Unlock()
					return &NodeError{Node: cur, State: snap, Err: err}
				}
				bstate = out

				mu.Lock()
				executed++
				mu.Unlock()

				next := r.edges[cur].to
				if next == e.join {
					break
				}
				cur = next
			}

			mu.Lock()
			global = r.merger(global, bstate)
			mu.Unlock()
			return nil
		})
	}

	err := eg.Wait()
	mu.Lock()
	defer mu.Unlock()
	return global, executed, err
}

func (r *Runnable[S]) partial(state S, thread, node string, step int) *Result[S] {
	return &Result[S]{State: state, Thread: thread, Next: node, Step: step}
}

func (r *Runnable[S]) emit(ctx context.Context, t notify.EventType, thread, node string, step int, msg string) {
	if r.notifier == nil {
		return
	}
	severity := notify.SeverityInfo
	if t == notify.EventRunFailed || t == notify.EventNodeFailed {
		severity = notify.SeverityError
	}
	_ = r.notifier.Notify(ctx, notify.Event{
		Type:      t,
		Thread:    thread,
		Node:      node,
		Step:      step,
		Message:   msg,
		Severity:  severity,
		Timestamp: time.Now(),
	})
}
