// Package graph provides a typed workflow graph engine: nodes declared over a
// shared state type, connected by static, conditional, and fan-out edges,
// compiled into an immutable runnable form and executed by a stateless
// interpreter.
//
// A graph is built with the fluent builder, compiled once, then run any
// number of times:
//
//	g, err := graph.New[Counter]().
//	    AddNode("increment", incrementNode).
//	    AddEdge("increment", graph.END).
//	    SetEntry("increment").
//	    Compile()
//	if err != nil {
//	    return err
//	}
//	final, err := g.Run(ctx, Counter{})
//
// Conditional edges declare their successor set up front; a router returning
// a name outside that set is a runtime RoutingError. Fan-out edges dispatch
// isolated state payloads to concurrent branches that rejoin at a declared
// join node, merged through the graph's Merger.
//
// Graphs may declare interruption points with InterruptBefore. Execution
// then checkpoints and pauses immediately before those nodes; Resume
// continues a paused thread, optionally patching the checkpointed state
// first. Checkpoints are persisted through a Saver keyed by thread ID.
package graph
