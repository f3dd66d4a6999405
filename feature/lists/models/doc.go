// Package models holds the GORM model of a reminder list.
package models
