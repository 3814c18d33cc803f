package graph

import (
	"fmt"
	"slices"

	"github.com/randalmurphal/resumeflow/notify"
)

// Runnable is a compiled, immutable graph ready for execution. It holds no
// run state; a single Runnable may execute many threads concurrently.
type Runnable[S any] struct {
	nodes      map[string]NodeFunc[S]
	edges      map[string]edge[S]
	entry      string
	merger     Merger[S]
	interrupts map[string]bool
	saver      Saver[S]
	notifier   notify.Notifier
}

// Compile validates the definition and produces a Runnable. All structural
// problems are collected into a single DefinitionError: undeclared names,
// missing or duplicate edges, unreachable nodes, no path to graph.END,
// fan-out without a merger, interrupts without a checkpointer.
func (g *Graph[S]) Compile() (*Runnable[S], error) {
	problems := slices.Clone(g.problems)
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	declared := func(name string) bool {
		_, ok := g.nodes[name]
		return ok
	}

	// Entry marker.
	switch {
	case g.entry == "":
		addf("no entry node set")
	case !declared(g.entry):
		addf("entry node %q is undeclared", g.entry)
	}

	// Edge endpoints.
	for _, from := range g.order {
		e, ok := g.edges[from]
		if !ok {
			addf("node %q has no outgoing edge", from)
			continue
		}
		switch e.kind {
		case edgeStatic:
			if e.to != END && !declared(e.to) {
				addf("edge %s -> %s references undeclared node", from, e.to)
			}
		case edgeConditional:
			for _, succ := range e.successors {
				if succ != END && !declared(succ) {
					addf("conditional edge from %q declares undeclared successor %q", from, succ)
				}
			}
		case edgeFanOut:
			for _, target := range e.targets {
				if !declared(target) {
					addf("fan-out from %q declares undeclared branch node %q", from, target)
				}
			}
			if e.join == END || !declared(e.join) {
				addf("fan-out from %q declares undeclared join node %q", from, e.join)
			}
			if g.merger == nil {
				addf("fan-out from %q requires a merger (use WithMerger)", from)
			}
		}
	}
	for from := range g.edges {
		if !declared(from) {
			addf("edge from undeclared node %q", from)
		}
	}

	// Fan-out branches must reach their join over static edges only, so the
	// join stays a hard barrier with no routing inside a branch.
	for _, from := range g.order {
		e := g.edges[from]
		if e.kind != edgeFanOut || !declared(e.join) {
			continue
		}
		for _, target := range e.targets {
			if !declared(target) {
				continue
			}
			g.checkBranchPath(from, target, e.join, addf)
		}
	}

	// Interruption points.
	for _, name := range g.interrupts {
		if !declared(name) {
			addf("interrupt before undeclared node %q", name)
		}
	}
	if len(g.interrupts) > 0 && g.saver == nil {
		addf("interrupt points require a checkpointer (use WithCheckpointer)")
	}

	// Reachability from the entry, and some path to END.
	if g.entry != "" && declared(g.entry) {
		reached := g.reachable()
		for _, name := range g.order {
			if !reached[name] {
				addf("node %q is unreachable from entry %q", name, g.entry)
			}
		}
		if !g.canTerminate(reached) {
			addf("no path from entry %q to %s", g.entry, END)
		}
	}

	if len(problems) > 0 {
		return nil, &DefinitionError{Problems: problems}
	}

	interrupts := make(map[string]bool, len(g.interrupts))
	for _, name := range g.interrupts {
		interrupts[name] = true
	}

	return &Runnable[S]{
		nodes:      g.nodes,
		edges:      g.edges,
		entry:      g.entry,
		merger:     g.merger,
		interrupts: interrupts,
		saver:      g.saver,
		notifier:   g.notifier,
	}, nil
}

// checkBranchPath walks static edges from a fan-out target and reports a
// problem unless the walk ends at the join.
func (g *Graph[S]) checkBranchPath(from, target, join string, addf func(string, ...any)) {
	seen := map[string]bool{}
	cur := target
	for {
		if cur == join {
			return
		}
		if seen[cur] {
			addf("fan-out branch %q from %q cycles without reaching join %q", target, from, join)
			return
		}
		seen[cur] = true
		e, ok := g.edges[cur]
		if !ok {
			// Reported as a missing edge already.
			return
		}
		if e.kind != edgeStatic {
			addf("fan-out branch node %q must reach join %q over static edges", cur, join)
			return
		}
		if e.to == END {
			addf("fan-out branch %q from %q reaches %s before join %q", target, from, END, join)
			return
		}
		cur = e.to
	}
}

// reachable returns the set of nodes reachable from the entry, treating
// conditional successors and fan-out targets as possible transitions.
func (g *Graph[S]) reachable() map[string]bool {
	reached := map[string]bool{}
	queue := []string{g.entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == END || reached[cur] {
			continue
		}
		if _, ok := g.nodes[cur]; !ok {
			continue
		}
		reached[cur] = true

		e, ok := g.edges[cur]
		if !ok {
			continue
		}
		switch e.kind {
		case edgeStatic:
			queue = append(queue, e.to)
		case edgeConditional:
			queue = append(queue, e.successors...)
		case edgeFanOut:
			queue = append(queue, e.targets...)
			queue = append(queue, e.join)
		}
	}
	return reached
}

// canTerminate reports whether any reachable node has an edge to END.
func (g *Graph[S]) canTerminate(reached map[string]bool) bool {
	for name := range reached {
		e, ok := g.edges[name]
		if !ok {
			continue
		}
		switch e.kind {
		case edgeStatic:
			if e.to == END {
				return true
			}
		case edgeConditional:
			if slices.Contains(e.successors, END) {
				return true
			}
		}
	}
	return false
}
