package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Engine errors.
var (
	// ErrNotFound indicates no checkpoint exists for the requested thread.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrInterrupted indicates Run hit an interruption point. Interruptible
	// graphs must be driven with Invoke/Resume so the pause can be handed
	// back to the caller.
	ErrInterrupted = errors.New("graph interrupted")
)

// DefinitionError reports structural problems found while compiling a graph
// definition. It is fatal: no execution happens until the definition is
// fixed. All problems are collected in one pass.
type DefinitionError struct {
	Problems []string
}

func (e *DefinitionError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "invalid graph definition"
	case 1:
		return "invalid graph definition: " + e.Problems[0]
	default:
		return fmt.Sprintf("invalid graph definition (%d problems):\n  - %s",
			len(e.Problems), strings.Join(e.Problems, "\n  - "))
	}
}

// RoutingError reports a routing function that returned a name outside its
// declared successor set, or a fan-out Send targeting an undeclared branch
// node. It aborts the current invocation.
type RoutingError struct {
	Node     string   // node the edge leaves from
	Returned string   // name the routing function produced
	Allowed  []string // declared successor set
}

func (e *RoutingError) Error() string {
	return fmt.Sprintf("edge from %q routed to %q, not in declared successors [%s]",
		e.Node, e.Returned, strings.Join(e.Allowed, " "))
}

// NodeError reports a node body failure. It carries the node name and the
// state as of the last successful merge; the failed node's partial update
// is discarded. Callers can correct the cause and re-invoke or resume.
type NodeError struct {
	Node  string
	State any
	Err   error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q failed: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// CheckpointError reports a checkpoint store failure at an interruption
// point or resume.
type CheckpointError struct {
	Op     string // "save", "load", or "delete"
	Thread string
	Err    error
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint %s for thread %q: %v", e.Op, e.Thread, e.Err)
}

func (e *CheckpointError) Unwrap() error { return e.Err }

// IsDefinitionError reports whether err is (or wraps) a DefinitionError.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}

// IsRoutingError reports whether err is (or wraps) a RoutingError.
func IsRoutingError(err error) bool {
	var re *RoutingError
	return errors.As(err, &re)
}

// IsNodeError reports whether err is (or wraps) a NodeError.
func IsNodeError(err error) bool {
	var ne *NodeError
	return errors.As(err, &ne)
}

// IsCheckpointError reports whether err is (or wraps) a CheckpointError.
func IsCheckpointError(err error) bool {
	var ce *CheckpointError
	return errors.As(err, &ce)
}

// FailedNode returns the name of the node whose body failed, or "" if err
// carries no node information.
func FailedNode(err error) string {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Node
	}
	return ""
}
