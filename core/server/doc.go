// Package server holds the HTTP server configuration.
//
// While cmd/start handles the server startup, this package defines the
// settings it reads: the listen port, the API key that protects every route,
// and how long a graceful shutdown may take.
//
// # Usage
//
// This package is embedded by core/config and read by the start command.
package server
