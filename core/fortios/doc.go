// Package fortios is the firewall driver. It wraps the FortiOS CMDB REST API
// for the tables the reconciler manages: firewall/address, firewall/addrgrp
// and their IPv6 counterparts. Reference counts for safe deletion come from
// the q_ref metadata field (with_meta=1).
//
// A Client is a handle to one endpoint; every call is scoped to a vdom. The
// orchestrator runs the scopes of one endpoint concurrently over a single
// handle, so the implementation keeps no per-call mutable state.
package fortios
