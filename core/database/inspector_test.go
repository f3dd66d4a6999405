package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE reminders (ID VARCHAR(36) PRIMARY KEY, title TEXT NOT NULL, done TINYINT(1))").Error)

	cols, err := GetTableColumns(db, "reminders")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, ColumnInfo{Field: "id", Type: "varchar(36)", Null: "YES", Key: "PRI"}, cols[0])
	assert.Equal(t, "NO", cols[1].Null)
	assert.Equal(t, "tinyint(1)", cols[2].Type)

	cols, err = GetTableColumns(db, "missing")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "VARCHAR(36)", "NO", "PRI", nil, "").
		AddRow("Title", "LONGTEXT", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `lists`").WillReturnRows(rows)

	cols, err := GetTableColumns(db, "lists")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Field)
	assert.Equal(t, "varchar(36)", cols[0].Type)
	assert.Equal(t, "PRI", cols[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}
