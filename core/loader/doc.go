// Package loader registers features on the fiber app.
//
// A feature (lists, reminders, export, integrity) implements Feature and is
// handed to a Manager. LoadAll skips disabled features, loads the rest in
// registration order and names the feature in any error it returns, so
// startup fails with "failed to load feature lists: ...".
package loader
