// Package addressing holds the pure core of the sync: projection of raw
// IPAM prefix records into platform-neutral address objects, and the set
// difference primitives that decide what the reconcilers create, update and
// delete.
//
// Everything here is deterministic and side-effect free. The reconcilers in
// feature/firewall and feature/secgroup own all I/O.
package addressing
