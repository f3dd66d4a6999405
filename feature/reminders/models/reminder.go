package models

import (
	"strconv"
	"time"

	"reminders/core/reconcile"
)

// Entity is the store topic of reminders.
const Entity = "reminders"

// Section keys of the reminders view.
const (
	SectionOpen = "open"
	SectionDone = "done"
)

// Reminder is one entry of a list.
type Reminder struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	ListID    string    `gorm:"column:list_id;type:varchar(36);not null;index" json:"list_id"`
	Title     string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Done      bool      `gorm:"column:done;type:tinyint(1);not null;default:0" json:"done"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:datetime" json:"updated_at"`
}

// TableName overrides the table name used by Reminder to `reminders`.
func (Reminder) TableName() string {
	return "reminders"
}

// RowID returns the reminder's identity in list views.
func (r Reminder) RowID() reconcile.RowIdentity {
	return reconcile.RowIdentity(r.ID)
}

// Fingerprint changes when the shown title or completion changes.
func (r Reminder) Fingerprint() string {
	return strconv.FormatBool(r.Done) + "|" + r.Title
}

// Section returns the view section the reminder belongs to.
func (r Reminder) Section() string {
	if r.Done {
		return SectionDone
	}
	return SectionOpen
}
