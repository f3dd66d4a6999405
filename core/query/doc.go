// Package query is the store side of list reconciliation.
//
// A Store runs fetch requests through gorm and keeps a per-request result
// cache with a TTL. Concurrent identical fetches are collapsed with
// singleflight, and Notify invalidates an entity's cache before telling its
// observers that it changed.
//
// A Controller owns one Request and one reconcile.Reconciler. PerformFetch
// loads the first results and subscribes to the store; every later Notify
// refetches, works out which rows changed content by comparing fingerprints,
// and hands the new results to the reconciler either as a batch of change
// events or as a snapshot, depending on the reconciler's mode.
//
// # Threading
//
// Controllers run their work through an Executor, normally the application's
// dispatch.Queue, so the reconciler and its view are only touched from one
// goroutine. Store.Notify must not be called from that goroutine.
//
// # Usage
//
//	store := query.NewStore(db, time.Minute, logger)
//	req := query.Request[models.List]{Entity: "lists", OrderBy: "title desc", Limit: 20}
//	ctrl := query.NewController(store, req, rec, queue, logger)
//	if err := ctrl.PerformFetch(ctx); err != nil { ... }
//	// after a write:
//	_ = store.Notify(ctx, "lists")
package query
