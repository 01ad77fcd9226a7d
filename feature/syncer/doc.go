// Package syncer orchestrates sync runs.
//
// A run loads the integrator directory, fetches desired state from IPAM
// once per integrator and pushes it to every configured firewall and
// security-platform target. Endpoint handles are opened at the start of the
// work that needs them and closed when that work ends; nothing is pooled
// across runs.
//
// At most one run is in flight per process. Concurrent triggers are
// rejected with ErrAlreadyRunning rather than queued, so an operator always
// knows whether their trigger did anything.
package syncer
