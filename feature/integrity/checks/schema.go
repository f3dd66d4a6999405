package checks

import (
	"fmt"
	"reflect"
	"strings"

	"reminders/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing models with the live schema.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport is the result for one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok" or "error"
}

// Tabler is a gorm model with an explicit table name.
type Tabler interface {
	TableName() string
}

// CheckSchema verifies that every column declared with a gorm "column:" tag
// on the given models exists, and that columns declaring "type:" have it.
func CheckSchema(db *gorm.DB, models ...Tabler) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	report := &SchemaReport{Matched: true, Tables: make(map[string]TableReport), Errors: []string{}}

	for _, model := range models {
		table := model.TableName()
		cols, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		if len(cols) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("table %s does not exist", table))
			report.Matched = false
			continue
		}
		actual := make(map[string]database.ColumnInfo, len(cols))
		for _, c := range cols {
			actual[c.Field] = c
		}

		tr := checkTable(reflect.TypeOf(model), actual)
		if tr.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tr
	}
	return report, nil
}

func checkTable(t reflect.Type, actual map[string]database.ColumnInfo) TableReport {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	tr := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("gorm")
		col := tagValue(tag, "column")
		if col == "" {
			continue
		}
		got, ok := actual[col]
		if !ok {
			tr.MissingColumns = append(tr.MissingColumns, col)
			tr.Status = "error"
			continue
		}
		want := strings.ToLower(tagValue(tag, "type"))
		if want != "" && !strings.Contains(got.Type, want) {
			tr.TypeMismatches = append(tr.TypeMismatches, fmt.Sprintf("%s: expected %s, got %s", col, want, got.Type))
			tr.Status = "error"
		}
	}
	return tr
}

// tagValue returns the value of key in a gorm tag such as
// "column:id;type:varchar(36);primaryKey".
func tagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(part), key+":"); ok {
			return v
		}
	}
	return ""
}
