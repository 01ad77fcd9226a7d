// Package directory is the integrator directory: the stored sync bindings
// between IPAM queries and firewall/security-platform targets.
//
// The orchestrator resolves its work set from here at the start of every
// run; nothing is cached across runs.
package directory
