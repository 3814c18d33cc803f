package graph

// END is the terminal node identifier.
// Use this as an edge target to indicate the graph should terminate.
const END = "__end__"

// NodeFunc is the signature for all node functions.
// Nodes receive the execution context and current state,
// and return the updated state (or the same state) and any error.
//
// The state parameter is passed by value. Nodes should modify and return
// a new state value, not rely on pointer mutation.
//
// Example:
//
//	func increment(ctx graph.Context, s Counter) (Counter, error) {
//	    s.Value++
//	    return s, nil
//	}
type NodeFunc[S any] func(ctx Context, state S) (S, error)

// RouterFunc determines the next node based on state.
// It is used for conditional edges where the next node depends on runtime
// state. The router must return a member of the edge's declared successor
// set (which may include graph.END); anything else is a RoutingError.
type RouterFunc[S any] func(ctx Context, state S) string

// Send targets one fan-out branch: the node to run and the isolated state
// payload it receives. Branches never share payloads; accumulation back
// into global state happens through the graph's Merger.
type Send[S any] struct {
	Node  string
	State S
}

// FanOutFunc produces the branch set for a fan-out edge. Each returned Send
// starts an independent concurrent branch; every Send.Node must be a member
// of the edge's declared target set.
type FanOutFunc[S any] func(ctx Context, state S) []Send[S]

// Merger folds one completed branch state into the global state at a
// fan-in join. It encodes the per-field merge policy: accumulator fields
// append, everything else keeps the global value or overwrites it as the
// state type requires. The engine serializes calls, so implementations
// need no locking.
type Merger[S any] func(global S, branch S) S
