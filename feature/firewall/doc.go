// Package firewall reconciles address objects and address groups on FortiOS
// endpoints.
//
// Reconciliation is scoped: objects in one vdom never affect another. The
// IPv4 and IPv6 table sets run the same state machine through the scopeAPI
// pair in api.go rather than duplicated code paths.
//
// Within a scope the ordering guarantees are: address-object creation
// happens before group create/update, and group update happens before any
// deletion driven by that update's diff. Deletions are gated on a zero
// reference count reported by the target.
package firewall
