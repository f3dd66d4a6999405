// Package dispatch provides the serial queue that owns every view.
//
// Table views, their reconcilers and the results controllers feeding them are
// single-goroutine objects. A Queue runs submitted closures one at a time, in
// submission order, on a single worker goroutine, the same role a GUI
// toolkit's main thread plays. HTTP handlers and store notifications marshal
// onto it with Sync or Async.
//
// # Usage
//
//	q := dispatch.New(64)
//	q.Start()
//	defer q.Stop()
//
//	err := q.Sync(ctx, func() error {
//	    return reconciler.OnSnapshot(snapshot)
//	})
package dispatch
