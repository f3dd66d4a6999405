// Package reconcile keeps a list view in agreement with an observed, ordered
// result set.
//
// A Reconciler sits between a query store, which knows what changed, and a
// ListView, which can insert, delete, move and refresh rows at explicit
// positions. It tracks a ViewState (which identity is shown where, and which
// one is selected) and never lets the view drift from it.
//
// # Modes
//
// A Reconciler is built for one of two inbound contracts:
//
//   - ModeEvents: the store opens a batch, sends ChangeEvents and closes the
//     batch. Events are validated in emission order against a working copy of
//     the state and forwarded to the view unchanged when the batch closes.
//   - ModeSnapshot: the store sends the full target Snapshot. The reconciler
//     diffs it against the state and sends the fewest operations it can,
//     never a delete+insert pair for a row that merely moved.
//
// # Faults
//
// A ChangeEvent or Snapshot that contradicts the tracked state is rejected
// with a *ConsistencyFault before anything reaches the view. The caller
// decides whether to Resync (full ReplaceAll) or give up.
//
// # Usage
//
//	r, err := reconcile.New(reconcile.Config{Mode: reconcile.ModeSnapshot, View: view})
//	if err != nil {
//	    return err
//	}
//	_ = r.Load(reconcile.Single("a", "b", "c"))
//	_ = r.OnSnapshot(reconcile.Single("c", "a", "b")) // one move
//
// Plans can also be computed without a view:
//
//	plan, err := reconcile.Diff(current, target)
package reconcile
