// Package tableview is an in-memory implementation of reconcile.ListView.
//
// It keeps materialized rows per section, groups every change made between
// BeginUpdates and EndUpdates into one Transition, and renders row content
// through a CellProvider. Rows further down than Config.VisibleRows are not
// re-rendered on refresh; they are marked stale and rendered when read.
//
// Moving a row keeps the same row object, so its draft (in-progress edit)
// survives. Deleting it discards the draft.
package tableview
