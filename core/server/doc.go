// Package server holds configuration for the HTTP API surface.
//
// The actual Fiber application is assembled in cmd/serve.go; this package
// only carries the settings (listen port, API key) so that core/config can
// compose them with the other partial configurations.
package server
