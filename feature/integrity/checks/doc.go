// Package checks holds the individual integrity checks: a schema check driven
// by gorm model tags and a storage check over the exports bucket.
package checks
