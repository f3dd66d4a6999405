// Package reminders is the detail screen of a list.
//
// A detail screen is opened with an explicit list id. It shows the list's
// reminders sorted by title, split into an "open" and a "done" section, and is
// driven by a reconcile.Reconciler in snapshot mode: after every write the
// screen's controller refetches and the reconciler diffs the new snapshot
// against what the view shows. Completing a reminder therefore moves its row
// across sections instead of deleting and inserting it.
//
// Screens stay loaded until their list is deleted or the service is closed.
//
// # HTTP Endpoints
//
//   - GET /lists/:id/reminders : detail view.
//   - POST /lists/:id/reminders : create a reminder.
//   - GET /lists/:id/reminders/transitions : recent view transitions.
//   - PATCH /reminders/:id : change title or completion.
//   - DELETE /reminders/:id : delete a reminder.
package reminders
