// Package models holds the GORM model of a reminder.
package models
