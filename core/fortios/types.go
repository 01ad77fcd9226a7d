package fortios

// Address is an IPv4 firewall address object.
type Address struct {
	Name string `json:"name"`
	// Subnet is "<network-address> <dotted-mask>".
	Subnet  string `json:"subnet"`
	Comment string `json:"comment,omitempty"`
}

// Address6 is an IPv6 firewall address object. IP6 is CIDR notation.
type Address6 struct {
	Name    string `json:"name"`
	IP6     string `json:"ip6"`
	Comment string `json:"comment,omitempty"`
}

// GroupMember references an address object by name.
type GroupMember struct {
	Name string `json:"name"`
}

// AddressGroup is a named collection of address object references.
// The same shape serves both families (addrgrp and addrgrp6 tables).
type AddressGroup struct {
	Name    string        `json:"name"`
	Member  []GroupMember `json:"member"`
	Comment string        `json:"comment,omitempty"`
}

// AddressDetail is the metadata view of one address object.
type AddressDetail struct {
	Name string
	// ReferenceCount is the number of other objects on the target that
	// still reference this address (q_ref). Zero means safe to delete.
	ReferenceCount int
}

// listResponse is the CMDB list envelope.
type listResponse[T any] struct {
	Results []T `json:"results"`
}

// metaRecord carries the per-object metadata returned with with_meta=1.
type metaRecord struct {
	Name string `json:"name"`
	QRef int    `json:"q_ref"`
}
