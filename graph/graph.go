package graph

import (
	"fmt"

	"github.com/randalmurphal/resumeflow/notify"
)

type edgeKind int

const (
	edgeStatic edgeKind = iota
	edgeConditional
	edgeFanOut
)

type edge[S any] struct {
	kind       edgeKind
	to         string        // static target
	router     RouterFunc[S] // conditional
	successors []string      // conditional declared set
	fanOut     FanOutFunc[S] // fan-out
	targets    []string      // fan-out declared branch nodes
	join       string        // fan-out join barrier
}

// Graph is a mutable workflow graph definition. Builder methods chain;
// structural problems are collected and reported by Compile, so definitions
// read as one fluent expression.
type Graph[S any] struct {
	nodes      map[string]NodeFunc[S]
	order      []string // declaration order, for deterministic diagnostics
	edges      map[string]edge[S]
	entry      string
	merger     Merger[S]
	interrupts []string
	saver      Saver[S]
	notifier   notify.Notifier
	problems   []string
}

// New creates an empty graph definition over the state type S.
func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes: make(map[string]NodeFunc[S]),
		edges: make(map[string]edge[S]),
	}
}

// AddNode declares a named node. Names must be unique and non-empty;
// graph.END is reserved.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	switch {
	case name == "":
		g.problems = append(g.problems, "node name must not be empty")
	case name == END:
		g.problems = append(g.problems, fmt.Sprintf("node name %q is reserved", END))
	case fn == nil:
		g.problems = append(g.problems, fmt.Sprintf("node %q has a nil function", name))
	default:
		if _, exists := g.nodes[name]; exists {
			g.problems = append(g.problems, fmt.Sprintf("node %q declared twice", name))
			return g
		}
		g.nodes[name] = fn
		g.order = append(g.order, name)
	}
	return g
}

// AddEdge declares a static edge: after from completes, to runs next.
// Use graph.END as the target to terminate the graph.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	if !g.claimEdge(from) {
		return g
	}
	g.edges[from] = edge[S]{kind: edgeStatic, to: to}
	return g
}

// AddConditionalEdge declares a conditional edge: after from completes,
// router picks the next node from the declared successor set. The set may
// include graph.END. A router returning any other name fails the run with
// a RoutingError.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S], successors ...string) *Graph[S] {
	if !g.claimEdge(from) {
		return g
	}
	if router == nil {
		g.problems = append(g.problems, fmt.Sprintf("conditional edge from %q has a nil router", from))
		return g
	}
	if len(successors) == 0 {
		g.problems = append(g.problems, fmt.Sprintf("conditional edge from %q declares no successors", from))
		return g
	}
	g.edges[from] = edge[S]{kind: edgeConditional, router: router, successors: successors}
	return g
}

// AddFanOut declares a fan-out edge: after from completes, fn produces one
// Send per branch. Branches run concurrently on isolated payloads, follow
// static edges until they reach join, and merge back into global state
// through the graph's Merger. Execution proceeds past join only once every
// branch has completed. Every Send must target a member of targets.
func (g *Graph[S]) AddFanOut(from string, fn FanOutFunc[S], join string, targets ...string) *Graph[S] {
	if !g.claimEdge(from) {
		return g
	}
	if fn == nil {
		g.problems = append(g.problems, fmt.Sprintf("fan-out edge from %q has a nil branch function", from))
		return g
	}
	if len(targets) == 0 {
		g.problems = append(g.problems, fmt.Sprintf("fan-out edge from %q declares no branch targets", from))
		return g
	}
	g.edges[from] = edge[S]{kind: edgeFanOut, fanOut: fn, targets: targets, join: join}
	return g
}

// SetEntry designates the node execution starts at.
func (g *Graph[S]) SetEntry(name string) *Graph[S] {
	g.entry = name
	return g
}

// WithMerger sets the fan-in merge function. Required when the graph
// declares any fan-out edge.
func (g *Graph[S]) WithMerger(m Merger[S]) *Graph[S] {
	g.merger = m
	return g
}

// InterruptBefore flags nodes as interruption points. Execution checkpoints
// and pauses immediately before each flagged node runs; Resume continues
// from it. Requires a checkpointer.
func (g *Graph[S]) InterruptBefore(names ...string) *Graph[S] {
	g.interrupts = append(g.interrupts, names...)
	return g
}

// WithCheckpointer sets the Saver used to persist checkpoints at
// interruption points.
func (g *Graph[S]) WithCheckpointer(s Saver[S]) *Graph[S] {
	g.saver = s
	return g
}

// WithNotifier attaches a notifier; the engine emits run and node lifecycle
// events through it.
func (g *Graph[S]) WithNotifier(n notify.Notifier) *Graph[S] {
	g.notifier = n
	return g
}

// claimEdge records that from has an outgoing edge, rejecting duplicates.
// Each node has exactly one outgoing edge record; fan-out and conditional
// edges express multiplicity themselves.
func (g *Graph[S]) claimEdge(from string) bool {
	if from == "" {
		g.problems = append(g.problems, "edge source must not be empty")
		return false
	}
	if from == END {
		g.problems = append(g.problems, fmt.Sprintf("%q cannot have outgoing edges", END))
		return false
	}
	if _, exists := g.edges[from]; exists {
		g.problems = append(g.problems, fmt.Sprintf("node %q has more than one outgoing edge", from))
		return false
	}
	return true
}
