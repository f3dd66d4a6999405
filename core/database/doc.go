// Package database opens the gorm connection and inspects live table
// definitions.
//
// Config.Driver picks MySQL or SQLite. SQLite is limited to one open
// connection, which keeps ":memory:" databases usable in tests.
//
// GetTableColumns returns SHOW COLUMNS (MySQL) or PRAGMA table_info (SQLite)
// as ColumnInfo rows with lowercased names and types. The integrity feature
// compares them with the gorm tags of the models.
package database
