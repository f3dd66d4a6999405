package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo is one row of SHOW COLUMNS. SQLite fills Field, Type and Key.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string
	Extra   string
}

// GetTableColumns returns the live columns of table with lowercased names and
// types. A missing table yields no columns and no error on SQLite.
func GetTableColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	var (
		cols []ColumnInfo
		err  error
	)
	if db.Dialector.Name() == DriverSQLite {
		cols, err = sqliteColumns(db, table)
	} else {
		err = db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&cols).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	for i := range cols {
		cols[i].Field = strings.ToLower(cols[i].Field)
		cols[i].Type = strings.ToLower(cols[i].Type)
	}
	return cols, nil
}

func sqliteColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	var rows []struct {
		Name    string
		Type    string
		Notnull int
		Pk      int
	}
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	cols := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		c := ColumnInfo{Field: r.Name, Type: r.Type, Null: "YES"}
		if r.Notnull != 0 {
			c.Null = "NO"
		}
		if r.Pk > 0 {
			c.Key = "PRI"
		}
		cols = append(cols, c)
	}
	return cols, nil
}
