// Package lists is the master screen: every reminder list, by title
// descending, in one table view.
//
// The view is driven by a reconcile.Reconciler in event mode. Each write goes
// through the Service, which notifies the query store; the list controller
// refetches, derives the change events and applies them as one batch, so a
// rename that moves a list animates as a single move plus a content refresh.
//
// The selection is kept by the reconciler and follows the selected list when
// other lists are added, renamed or deleted.
//
// # HTTP Endpoints
//
//   - GET /lists : master view rows and selection.
//   - POST /lists : create a list.
//   - PATCH /lists/:id : rename a list.
//   - DELETE /lists/:id : delete a list and its reminders.
//   - PUT /lists/:id/selection : select a list.
//   - DELETE /lists/selection : clear the selection.
//   - GET /lists/transitions : recent view transitions.
package lists
