package graph

import "fmt"

// Embed adapts a compiled graph into a node of a parent graph. The into
// projection builds the sub-graph's initial state from the parent state and
// from folds the sub-graph's final state back in. The embedded run borrows
// the parent thread ID with the node name appended, so notifications from
// both levels correlate.
//
// Embedded graphs must run to completion inside the node: an interruption
// point reached by the sub-graph is reported as a node failure.
func Embed[Outer, Inner any](sub *Runnable[Inner], into func(Outer) Inner, from func(Outer, Inner) Outer) NodeFunc[Outer] {
	return func(ctx Context, state Outer) (Outer, error) {
		res, err := sub.Invoke(ctx, into(state), WithThread(ctx.Thread()+"/"+ctx.Node()))
		if err != nil {
			return state, err
		}
		if res.Interrupted {
			return state, fmt.Errorf("embedded graph %w before node %q", ErrInterrupted, res.Next)
		}
		return from(state, res.State), nil
	}
}
