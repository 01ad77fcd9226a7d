package nsx

// Tag is a scope/tag pair attached to a policy group.
type Tag struct {
	Scope string `json:"scope,omitempty"`
	Tag   string `json:"tag"`
}

// Expression holds a flat list of raw IP/CIDR strings. Membership in the
// group is by value; there is no per-member object indirection.
type Expression struct {
	ResourceType string   `json:"resource_type"`
	IPAddresses  []string `json:"ip_addresses"`
}

// Group is an NSX policy group.
type Group struct {
	ID          string       `json:"id,omitempty"`
	DisplayName string       `json:"display_name"`
	Description string       `json:"description,omitempty"`
	Expression  []Expression `json:"expression,omitempty"`
	Tags        []Tag        `json:"tags,omitempty"`
}

// ResourceTypeIPAddressExpression is the expression type the sync manages.
const ResourceTypeIPAddressExpression = "IPAddressExpression"
