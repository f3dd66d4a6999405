package models

import (
	"time"

	"reminders/core/reconcile"
)

// Entity is the store topic of lists.
const Entity = "lists"

// List is a named collection of reminders.
type List struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Title     string    `gorm:"column:title;type:varchar(255);not null;index" json:"title"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:datetime" json:"updated_at"`
}

// TableName overrides the table name used by List to `lists`.
func (List) TableName() string {
	return "lists"
}

// RowID returns the list's identity in list views.
func (l List) RowID() reconcile.RowIdentity {
	return reconcile.RowIdentity(l.ID)
}

// Fingerprint changes when the shown title changes.
func (l List) Fingerprint() string {
	return l.Title
}
