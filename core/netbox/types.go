package netbox

// Prefix is one desired-state prefix record from the IPAM.
// Records are read-only input; the sync core never mutates them.
type Prefix struct {
	// Prefix is the raw CIDR text, e.g. "192.168.1.0/24".
	Prefix string
	// Display is the canonical display string (IPv6 may be compressed).
	Display string
	// Family is the address family, 4 or 6.
	Family int
	// VLANName is the name of the associated VLAN, if any.
	VLANName string
}

// prefixList is the paginated NetBox list envelope.
type prefixList struct {
	Count   int            `json:"count"`
	Next    *string        `json:"next"`
	Results []prefixRecord `json:"results"`
}

// prefixRecord is the wire shape of a single prefix.
type prefixRecord struct {
	Prefix  string `json:"prefix"`
	Display string `json:"display"`
	Family  struct {
		Value int `json:"value"`
	} `json:"family"`
	VLAN *struct {
		Name string `json:"name"`
	} `json:"vlan"`
}

func (r prefixRecord) toPrefix() Prefix {
	p := Prefix{
		Prefix:  r.Prefix,
		Display: r.Display,
		Family:  r.Family.Value,
	}
	if r.VLAN != nil {
		p.VLANName = r.VLAN.Name
	}
	return p
}
