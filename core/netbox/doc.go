// Package netbox is the IPAM driver. It exposes the one read the sync core
// needs, GetPrefixes, as an explicit handle (Client) that the orchestrator
// opens per integrator and closes before opening the next one.
package netbox
