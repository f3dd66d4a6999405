// Package integrity reports on the health of the database schema and the
// exports bucket.
//
// The schema check reads the gorm tags of the list and reminder models and
// compares them with the live table definitions. The storage check looks for
// a missing bucket, malformed export keys, and exports of deleted lists.
//
// # HTTP Endpoints
//
//   - GET /integrity : all checks.
//   - GET /integrity/schema : schema check.
//   - GET /integrity/storage?fix=true : storage check, optionally repaired.
package integrity
