package secgroup

import (
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/nsx"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/addressing"
)

const groupIDPrefix = "nsg-"

// GroupID derives the managed policy-group identifier from an integrator's
// security group key.
func GroupID(key string) string {
	return groupIDPrefix + key
}

// Params describes the managed security group for one integrator.
type Params struct {
	Key         string
	Description string
	// TagScope and TagValue attach a scope/tag pair to the group. The tag
	// is applied only when both are set.
	TagScope string
	TagValue string
}

// BuildGroup assembles the full desired group document. The value list is
// deduplicated; an empty value list yields a group without an expression,
// which NSX treats as an empty membership.
func BuildGroup(p Params, values []string) nsx.Group {
	group := nsx.Group{
		ID:          GroupID(p.Key),
		DisplayName: GroupID(p.Key),
		Description: p.Description,
	}

	if deduped := addressing.Dedup(values); len(deduped) > 0 {
		group.Expression = []nsx.Expression{{
			ResourceType: nsx.ResourceTypeIPAddressExpression,
			IPAddresses:  deduped,
		}}
	}

	if p.TagScope != "" && p.TagValue != "" {
		group.Tags = []nsx.Tag{{Scope: p.TagScope, Tag: p.TagValue}}
	}

	return group
}

// observedValues flattens every IPAddressExpression of a group into one
// deduplicated value list.
func observedValues(group *nsx.Group) []string {
	if group == nil {
		return nil
	}
	var values []string
	for _, expr := range group.Expression {
		if expr.ResourceType != nsx.ResourceTypeIPAddressExpression {
			continue
		}
		values = append(values, expr.IPAddresses...)
	}
	return addressing.Dedup(values)
}
