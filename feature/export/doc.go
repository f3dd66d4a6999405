// Package export writes lists to object storage.
//
// An export is one JSON object per list at exports/lists/<list id>.json in the
// configured bucket, holding the list, its reminders (open before done, by
// title) and the export time. Exporting again overwrites the object.
//
// # HTTP Endpoints
//
//   - POST /lists/:id/export : export one list.
//   - GET /exports : keys of stored exports.
package export
