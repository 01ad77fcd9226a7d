package firewall

import (
	"context"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/fortios"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/addressing"
)

// scopeAPI is the family-neutral view of the firewall tables the reconciler
// works against. The two implementations below bind it to the IPv4 and IPv6
// table sets of a fortios handle; the reconciliation algorithm itself is
// written once against this interface.
type scopeAPI interface {
	ExistingAddresses(ctx context.Context, scope string) (map[string]struct{}, error)
	CreateAddress(ctx context.Context, scope string, obj addressing.Object) error
	ReferenceCount(ctx context.Context, scope, name string) (int, error)
	DeleteAddress(ctx context.Context, scope, name string) error
	ExistingGroups(ctx context.Context, scope string) (map[string]addressing.Group, error)
	CreateGroup(ctx context.Context, scope string, group addressing.Group) error
	UpdateGroup(ctx context.Context, scope string, group addressing.Group) error
}

// newScopeAPI binds a fortios handle to the table set of one family.
func newScopeAPI(client fortios.Client, family addressing.Family) scopeAPI {
	if family == addressing.FamilyIPv6 {
		return api6{client}
	}
	return api4{client}
}

type api4 struct {
	c fortios.Client
}

func (a api4) ExistingAddresses(ctx context.Context, scope string) (map[string]struct{}, error) {
	addresses, err := a.c.GetAddresses(ctx, scope)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		names[addr.Name] = struct{}{}
	}
	return names, nil
}

func (a api4) CreateAddress(ctx context.Context, scope string, obj addressing.Object) error {
	return a.c.CreateAddress(ctx, scope, fortios.Address{
		Name:    obj.Name,
		Subnet:  obj.Value,
		Comment: obj.Comment,
	})
}

func (a api4) ReferenceCount(ctx context.Context, scope, name string) (int, error) {
	detail, err := a.c.GetAddress(ctx, scope, name)
	if err != nil {
		return 0, err
	}
	return detail.ReferenceCount, nil
}

func (a api4) DeleteAddress(ctx context.Context, scope, name string) error {
	return a.c.DeleteAddress(ctx, scope, name)
}

func (a api4) ExistingGroups(ctx context.Context, scope string) (map[string]addressing.Group, error) {
	groups, err := a.c.GetAddressGroups(ctx, scope)
	if err != nil {
		return nil, err
	}
	return groupsByName(groups), nil
}

func (a api4) CreateGroup(ctx context.Context, scope string, group addressing.Group) error {
	return a.c.CreateAddressGroup(ctx, scope, toWireGroup(group))
}

func (a api4) UpdateGroup(ctx context.Context, scope string, group addressing.Group) error {
	return a.c.UpdateAddressGroup(ctx, scope, group.Name, toWireGroup(group))
}

type api6 struct {
	c fortios.Client
}

func (a api6) ExistingAddresses(ctx context.Context, scope string) (map[string]struct{}, error) {
	addresses, err := a.c.GetAddresses6(ctx, scope)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(addresses))
	for _, addr := range addresses {
		names[addr.Name] = struct{}{}
	}
	return names, nil
}

func (a api6) CreateAddress(ctx context.Context, scope string, obj addressing.Object) error {
	return a.c.CreateAddress6(ctx, scope, fortios.Address6{
		Name:    obj.Name,
		IP6:     obj.Value,
		Comment: obj.Comment,
	})
}

func (a api6) ReferenceCount(ctx context.Context, scope, name string) (int, error) {
	detail, err := a.c.GetAddress6(ctx, scope, name)
	if err != nil {
		return 0, err
	}
	return detail.ReferenceCount, nil
}

func (a api6) DeleteAddress(ctx context.Context, scope, name string) error {
	return a.c.DeleteAddress6(ctx, scope, name)
}

func (a api6) ExistingGroups(ctx context.Context, scope string) (map[string]addressing.Group, error) {
	groups, err := a.c.GetAddressGroups6(ctx, scope)
	if err != nil {
		return nil, err
	}
	return groupsByName(groups), nil
}

func (a api6) CreateGroup(ctx context.Context, scope string, group addressing.Group) error {
	return a.c.CreateAddressGroup6(ctx, scope, toWireGroup(group))
}

func (a api6) UpdateGroup(ctx context.Context, scope string, group addressing.Group) error {
	return a.c.UpdateAddressGroup6(ctx, scope, group.Name, toWireGroup(group))
}

func groupsByName(groups []fortios.AddressGroup) map[string]addressing.Group {
	byName := make(map[string]addressing.Group, len(groups))
	for _, g := range groups {
		members := make([]string, 0, len(g.Member))
		for _, m := range g.Member {
			members = append(members, m.Name)
		}
		byName[g.Name] = addressing.Group{
			Name:    g.Name,
			Members: members,
			Comment: g.Comment,
		}
	}
	return byName
}

func toWireGroup(group addressing.Group) fortios.AddressGroup {
	members := make([]fortios.GroupMember, 0, len(group.Members))
	for _, name := range group.Members {
		members = append(members, fortios.GroupMember{Name: name})
	}
	return fortios.AddressGroup{
		Name:    group.Name,
		Member:  members,
		Comment: group.Comment,
	}
}
