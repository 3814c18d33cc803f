package graph

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/randalmurphal/resumeflow/notify"
)

// =============================================================================
// Linear and Conditional Execution
// =============================================================================

func TestRun_Linear(t *testing.T) {
	r, err := New[traceState]().
		AddNode("a", record("a")).
		AddNode("b", record("b")).
		AddEdge("a", "b").
		AddEdge("b", END).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	out, err := r.Run(context.Background(), traceState{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"a", "b"}
	if len(out.Trace) != len(want) || out.Trace[0] != "a" || out.Trace[1] != "b" {
		t.Errorf("Trace = %v, want %v", out.Trace, want)
	}
}

func TestRun_ConditionalLoop(t *testing.T) {
	increment := func(ctx Context, s traceState) (traceState, error) {
		s.Value++
		return s, nil
	}
	router := func(ctx Context, s traceState) string {
		if s.Value >= 3 {
			return END
		}
		return "increment"
	}

	r, err := New[traceState]().
		AddNode("increment", increment).
		AddConditionalEdge("increment", router, "increment", END).
		SetEntry("increment").
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	out, err := r.Run(context.Background(), traceState{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Value != 3 {
		t.Errorf("Value = %d, want 3", out.Value)
	}
}

func TestRun_RoutingError(t *testing.T) {
	astray := func(ctx Context, s traceState) string { return "nowhere" }

	r, err := New[traceState]().
		AddNode("a", record("a")).
		AddNode("b", record("b")).
		AddConditionalEdge("a", astray, "b", END).
		AddEdge("b", END).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	out, err := r.Run(context.Background(), traceState{})
	if err == nil {
		t.Fatal("Run() error = nil, want RoutingError")
	}

	var re *RoutingError
	if !errors.As(err, &re) {
		t.Fatalf("Run() error = %T, want *RoutingError", err)
	}
	if re.Node != "a" || re.Returned != "nowhere" {
		t.Errorf("RoutingError = %+v, want Node=a Returned=nowhere", re)
	}
	if len(re.Allowed) != 2 {
		t.Errorf("Allowed = %v, want the declared successor set", re.Allowed)
	}

	// The node itself succeeded before routing failed, so its update
	// survives in the returned state.
	if len(out.Trace) != 1 || out.Trace[0] != "a" {
		t.Errorf("Trace = %v, want [a]", out.Trace)
	}
}

// =============================================================================
// Node Failure Semantics
// =============================================================================

func TestRun_NodeError_DiscardsPartialUpdate(t *testing.T) {
	boom := errors.New("boom")
	failing := func(ctx Context, s traceState) (traceState, error) {
		s.Trace = append(s.Trace, "failing") // must not leak out
		s.Value = 99
		return s, boom
	}

	r, err := New[traceState]().
		AddNode("a", record("a")).
		AddNode("failing", failing).
		AddEdge("a", "failing").
		AddEdge("failing", END).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	out, err := r.Run(context.Background(), traceState{})
	if err == nil {
		t.Fatal("Run() error = nil, want NodeError")
	}
	if !errors.Is(err, boom) {
		t.Errorf("errors.Is(err, boom) = false; err = %v", err)
	}
	if got := FailedNode(err); got != "failing" {
		t.Errorf("FailedNode() = %q, want failing", got)
	}

	// State rolls back to the last successful node.
	if len(out.Trace) != 1 || out.Trace[0] != "a" {
		t.Errorf("Trace = %v, want [a]", out.Trace)
	}
	if out.Value != 0 {
		t.Errorf("Value = %d, want 0 (partial update discarded)", out.Value)
	}

	var ne *NodeError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %T, want *NodeError", err)
	}
	last, ok := ne.State.(traceState)
	if !ok {
		t.Fatalf("NodeError.State = %T, want traceState", ne.State)
	}
	if len(last.Trace) != 1 || last.Trace[0] != "a" {
		t.Errorf("NodeError.State.Trace = %v, want [a]", last.Trace)
	}
}

// =============================================================================
// Fan-Out / Fan-In
// =============================================================================

func fanOutGraph(t *testing.T, left, right NodeFunc[traceState]) *Runnable[traceState] {
	t.Helper()
	r, err := New[traceState]().
		AddNode("split", record("split")).
		AddNode("left", left).
		AddNode("right", right).
		AddNode("join", func(ctx Context, s traceState) (traceState, error) {
			// The join observes the fully merged state; record how much
			// arrived to prove the barrier held.
			s.Value = len(s.Trace)
			s.Trace = append(s.Trace, "join")
			return s, nil
		}).
		AddFanOut("split", func(ctx Context, s traceState) []Send[traceState] {
			return []Send[traceState]{
				{Node: "left", State: traceState{}},
				{Node: "right", State: traceState{}},
			}
		}, "join", "left", "right").
		AddEdge("left", "join").
		AddEdge("right", "join").
		AddEdge("join", END).
		SetEntry("split").
		WithMerger(appendMerger).
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return r
}

func TestRun_FanOut_MergesBothBranches(t *testing.T) {
	r := fanOutGraph(t, record("left"), record("right"))

	out, err := r.Run(context.Background(), traceState{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// split first, join last, both branch entries in between in
	// unspecified order.
	if len(out.Trace) != 4 {
		t.Fatalf("Trace = %v, want 4 entries", out.Trace)
	}
	if out.Trace[0] != "split" || out.Trace[3] != "join" {
		t.Errorf("Trace = %v, want split first and join last", out.Trace)
	}
	middle := []string{out.Trace[1], out.Trace[2]}
	sort.Strings(middle)
	if middle[0] != "left" || middle[1] != "right" {
		t.Errorf("branch entries = %v, want both left and right", middle)
	}

	// Value was set by the join to the trace length it observed: all
	// three prior entries, proving no branch was still in flight.
	if out.Value != 3 {
		t.Errorf("Value = %d, want 3 (join saw both merges)", out.Value)
	}
}

func TestRun_FanOut_IsolatedPayloads(t *testing.T) {
	tag := func(name string) NodeFunc[traceState] {
		return func(ctx Context, s traceState) (traceState, error) {
			// Branches see only their Send payload, never each other.
			if len(s.Trace) != 0 {
				return s, errors.New("branch payload was not isolated")
			}
			s.Trace = append(s.Trace, name)
			return s, nil
		}
	}
	r := fanOutGraph(t, tag("left"), tag("right"))

	// A populated global trace must not leak into branch payloads.
	out, err := r.Run(context.Background(), traceState{Trace: []string{"pre"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Trace[0] != "pre" || out.Trace[1] != "split" {
		t.Errorf("Trace = %v, want pre then split first", out.Trace)
	}
}

func TestRun_FanOut_BranchesRunConcurrently(t *testing.T) {
	var arrived atomic.Int32
	release := make(chan struct{})
	meet := func(name string) NodeFunc[traceState] {
		return func(ctx Context, s traceState) (traceState, error) {
			if arrived.Add(1) == 2 {
				close(release)
			}
			select {
			case <-release:
			case <-time.After(2 * time.Second):
				return s, errors.New("sibling branch never started: branches ran serially")
			}
			s.Trace = append(s.Trace, name)
			return s, nil
		}
	}

	r := fanOutGraph(t, meet("left"), meet("right"))
	if _, err := r.Run(context.Background(), traceState{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_FanOut_RejectsUndeclaredSend(t *testing.T) {
	r, err := New[traceState]().
		AddNode("split", record("split")).
		AddNode("left", record("left")).
		AddNode("join", record("join")).
		AddFanOut("split", func(ctx Context, s traceState) []Send[traceState] {
			return []Send[traceState]{{Node: "stranger"}}
		}, "join", "left").
		AddEdge("left", "join").
		AddEdge("join", END).
		SetEntry("split").
		WithMerger(appendMerger).
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	_, err = r.Run(context.Background(), traceState{})
	var re *RoutingError
	if !errors.As(err, &re) {
		t.Fatalf("Run() error = %T (%v), want *RoutingError", err, err)
	}
	if re.Returned != "stranger" {
		t.Errorf("Returned = %q, want stranger", re.Returned)
	}
}

func TestRun_FanOut_BranchFailure(t *testing.T) {
	boom := errors.New("editor offline")
	failing := func(ctx Context, s traceState) (traceState, error) {
		return s, boom
	}

	r := fanOutGraph(t, failing, record("right"))

	_, err := r.Run(context.Background(), traceState{})
	if err == nil {
		t.Fatal("Run() error = nil, want NodeError from the failed branch")
	}
	if !errors.Is(err, boom) {
		t.Errorf("errors.Is(err, boom) = false; err = %v", err)
	}
	if got := FailedNode(err); got != "left" {
		t.Errorf("FailedNode() = %q, want left", got)
	}
}

// =============================================================================
// Context Metadata
// =============================================================================

func TestRun_ContextMetadata(t *testing.T) {
	type seen struct {
		thread string
		node   string
		step   int
	}
	var mu sync.Mutex
	var observations []seen

	observe := func(name string) NodeFunc[traceState] {
		return func(ctx Context, s traceState) (traceState, error) {
			mu.Lock()
			observations = append(observations, seen{ctx.Thread(), ctx.Node(), ctx.Step()})
			mu.Unlock()
			return s, nil
		}
	}

	r, err := New[traceState]().
		AddNode("a", observe("a")).
		AddNode("b", observe("b")).
		AddEdge("a", "b").
		AddEdge("b", END).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	res, err := r.Invoke(context.Background(), traceState{}, WithThread("thr_meta"))
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Thread != "thr_meta" {
		t.Errorf("Thread = %q, want thr_meta", res.Thread)
	}

	want := []seen{
		{"thr_meta", "a", 0},
		{"thr_meta", "b", 1},
	}
	if len(observations) != len(want) {
		t.Fatalf("observations = %v, want %v", observations, want)
	}
	for i := range want {
		if observations[i] != want[i] {
			t.Errorf("observation[%d] = %+v, want %+v", i, observations[i], want[i])
		}
	}
}

func TestInvoke_GeneratesThreadID(t *testing.T) {
	r, err := New[traceState]().
		AddNode("a", record("a")).
		AddEdge("a", END).
		SetEntry("a").
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	res, err := r.Invoke(context.Background(), traceState{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.HasPrefix(res.Thread, "thr_") {
		t.Errorf("Thread = %q, want thr_ prefix", res.Thread)
	}

	res2, err := r.Invoke(context.Background(), traceState{})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Thread == res2.Thread {
		t.Errorf("two runs share thread ID %q", res.Thread)
	}
}

// =============================================================================
// Run vs Invoke on Interruptible Graphs
// =============================================================================

func TestRun_RefusesInterrupt(t *testing.T) {
	r, err := New[traceState]().
		AddNode("a", record("a")).
		AddNode("gate", record("gate")).
		AddEdge("a", "gate").
		AddEdge("gate", END).
		SetEntry("a").
		InterruptBefore("gate").
		WithCheckpointer(NewMemorySaver[traceState]()).
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	_, err = r.Run(context.Background(), traceState{})
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("Run() error = %v, want ErrInterrupted", err)
	}
}

// =============================================================================
// Notifications
// =============================================================================

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Notify(ctx context.Context, e notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingNotifier) types() []notify.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestRun_EmitsLifecycleEvents(t *testing.T) {
	rec := &recordingNotifier{}

	r, err := New[traceState]().
		AddNode("a", record("a")).
		AddNode("b", record("b")).
		AddEdge("a", "b").
		AddEdge("b", END).
		SetEntry("a").
		WithNotifier(rec).
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if _, err := r.Invoke(context.Background(), traceState{}, WithThread("thr_ev")); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	want := []notify.EventType{
		notify.EventRunStarted,
		notify.EventNodeStarted,
		notify.EventNodeCompleted,
		notify.EventNodeStarted,
		notify.EventNodeCompleted,
		notify.EventRunCompleted,
	}
	got := rec.types()
	if len(got) != len(want) {
		t.Fatalf("event types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	for _, e := range rec.events {
		if e.Thread != "thr_ev" {
			t.Errorf("event %s has thread %q, want thr_ev", e.Type, e.Thread)
		}
	}
}

func TestRun_EmitsFailureEvents(t *testing.T) {
	rec := &recordingNotifier{}

	r, err := New[traceState]().
		AddNode("a", func(ctx Context, s traceState) (traceState, error) {
			return s, errors.New("boom")
		}).
		AddEdge("a", END).
		SetEntry("a").
		WithNotifier(rec).
		Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if _, err := r.Invoke(context.Background(), traceState{}); err == nil {
		t.Fatal("Invoke() error = nil, want node failure")
	}

	got := rec.types()
	var sawNodeFailed, sawRunFailed bool
	for _, et := range got {
		if et == notify.EventNodeFailed {
			sawNodeFailed = true
		}
		if et == notify.EventRunFailed {
			sawRunFailed = true
		}
	}
	if !sawNodeFailed || !sawRunFailed {
		t.Errorf("event types = %v, want node_failed and run_failed", got)
	}
}

// =============================================================================
// Embedding
// =============================================================================

func TestEmbed_RunsSubGraphAsNode(t *testing.T) {
	type innerState struct{ N int }

	sub, err := New[innerState]().
		AddNode("double", func(ctx Context, s innerState) (innerState, error) {
			s.N *= 2
			return s, nil
		}).
		AddEdge("double", END).
		SetEntry("double").
		Compile()
	if err != nil {
		t.Fatalf("sub Compile() error = %v", err)
	}

	outer, err := New[traceState]().
		AddNode("sub", Embed(sub,
			func(s traceState) innerState { return innerState{N: s.Value} },
			func(s traceState, in innerState) traceState {
				s.Value = in.N
				return s
			})).
		AddEdge("sub", END).
		SetEntry("sub").
		Compile()
	if err != nil {
		t.Fatalf("outer Compile() error = %v", err)
	}

	out, err := outer.Run(context.Background(), traceState{Value: 3})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Value != 6 {
		t.Errorf("Value = %d, want 6", out.Value)
	}
}
