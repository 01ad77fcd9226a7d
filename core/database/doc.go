// Package database manages the connection to the integrator directory
// database (MySQL via GORM).
//
// The directory holds the sync bindings: which IPAM query feeds which
// firewall and security-platform targets. See feature/directory for the
// models and queries built on top of this connection.
package database
