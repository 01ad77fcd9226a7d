package addressing

import (
	"net"
	"strings"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/netbox"
)

// Project maps raw prefix records to address objects for one family.
// Records of the other family are filtered out; a record whose CIDR cannot
// be parsed yields no object. Input order is preserved and the input is
// never mutated. An empty input yields an empty (non-nil) slice.
func Project(prefixes []netbox.Prefix, family Family) []Object {
	objects := make([]Object, 0, len(prefixes))

	for _, p := range prefixes {
		if Family(p.Family) != family {
			continue
		}

		var obj Object
		var ok bool
		switch family {
		case FamilyIPv6:
			obj, ok = project6(p)
		default:
			obj, ok = project4(p)
		}
		if !ok {
			continue
		}

		if p.VLANName != "" {
			obj.Comment = strings.ToLower(p.VLANName)
		}

		objects = append(objects, obj)
	}

	return objects
}

// project4 emits a "<network-address> <dotted-mask>" payload derived from
// the CIDR prefix length, named after the raw CIDR text.
func project4(p netbox.Prefix) (Object, bool) {
	_, ipnet, err := net.ParseCIDR(p.Prefix)
	if err != nil || ipnet.IP.To4() == nil {
		return Object{}, false
	}

	return Object{
		Name:   objectPrefix4 + p.Prefix,
		Family: FamilyIPv4,
		Value:  ipnet.IP.String() + " " + net.IP(ipnet.Mask).String(),
	}, true
}

// project6 preserves the CIDR verbatim as the payload and names the object
// after the canonical display string (which may be compressed notation).
func project6(p netbox.Prefix) (Object, bool) {
	display := p.Display
	if display == "" {
		display = p.Prefix
	}

	return Object{
		Name:   objectPrefix6 + display,
		Family: FamilyIPv6,
		Value:  p.Prefix,
	}, true
}
