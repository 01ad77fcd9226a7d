package addressing

// Family is the address family of an object, 4 or 6.
type Family int

const (
	FamilyIPv4 Family = 4
	FamilyIPv6 Family = 6
)

// Object is a platform-neutral address object derived from one prefix.
// It is created fresh every run; the target platform is the system of
// record for what currently exists.
type Object struct {
	// Name is the derived object name (netbox_<cidr> / netbox6_<display>).
	Name string
	// Family is the address family of the object.
	Family Family
	// Value is the family-specific payload: "<network> <dotted-mask>" for
	// IPv4, the CIDR string verbatim for IPv6.
	Value string
	// Comment is the lowercased VLAN label; empty means no comment.
	Comment string
}

// Group is a named collection of address object references (by name).
type Group struct {
	Name    string
	Members []string
	Comment string
}

// objectPrefix4 and objectPrefix6 are the fixed name prefixes for derived
// address objects, distinct per family.
const (
	objectPrefix4 = "netbox_"
	objectPrefix6 = "netbox6_"
)

// groupPrefix4 and groupPrefix6 are the fixed name prefixes for managed
// address groups.
const (
	groupPrefix4 = "grp_"
	groupPrefix6 = "grp6_"
)

// GroupName derives the managed group name for a group key and family.
func GroupName(key string, family Family) string {
	if family == FamilyIPv6 {
		return groupPrefix6 + key
	}
	return groupPrefix4 + key
}

// MemberNames returns the names of the given objects, de-duplicated with
// input order preserved.
func MemberNames(objects []Object) []string {
	names := make([]string, 0, len(objects))
	seen := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		if _, ok := seen[obj.Name]; ok {
			continue
		}
		seen[obj.Name] = struct{}{}
		names = append(names, obj.Name)
	}
	return names
}

// Dedup returns the values with duplicates removed, input order preserved.
func Dedup(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
