package firewall

import (
	"context"
	"testing"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/fortios"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/fortios/mocks"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/addressing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func params() Params {
	return Params{
		Integrator:   "dcn-core",
		Hostname:     "fw1.example.com",
		Scope:        "dmz",
		Family:       addressing.FamilyIPv4,
		ManageGroups: true,
		GroupKey:     "dcn",
	}
}

func desiredObjects(names ...string) []addressing.Object {
	objects := make([]addressing.Object, 0, len(names))
	for _, n := range names {
		objects = append(objects, addressing.Object{
			Name:   n,
			Family: addressing.FamilyIPv4,
			Value:  "10.0.0.0 255.255.255.0",
		})
	}
	return objects
}

func TestReconcileScope_SnapshotFetchFailureSkipsScope(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return(nil, assert.AnError)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(), desiredObjects("a"))

	assert.True(t, result.Skipped)
	// No mutation may be attempted after a failed snapshot.
	client.AssertNotCalled(t, "CreateAddress", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "UpdateAddressGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileScope_CreatesMissingObjects(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{
		{Name: "a1"},
	}, nil)
	client.On("CreateAddress", mock.Anything, "dmz", mock.MatchedBy(func(a fortios.Address) bool {
		return a.Name == "a2"
	})).Return(nil)
	client.On("CreateAddressGroup", mock.Anything, "dmz", mock.Anything).Return(nil)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(), desiredObjects("a1", "a2"))

	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.Created)
	client.AssertExpectations(t)
}

func TestReconcileScope_CreateFailureDoesNotBlockOthers(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{}, nil)
	client.On("CreateAddress", mock.Anything, "dmz", mock.MatchedBy(func(a fortios.Address) bool {
		return a.Name == "a1"
	})).Return(assert.AnError)
	client.On("CreateAddress", mock.Anything, "dmz", mock.MatchedBy(func(a fortios.Address) bool {
		return a.Name == "a2"
	})).Return(nil)
	client.On("CreateAddressGroup", mock.Anything, "dmz", mock.Anything).Return(nil)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(), desiredObjects("a1", "a2"))

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.CreateFailed)
	client.AssertExpectations(t)
}

func TestReconcileScope_CreatesGroupWithDedupedMembers(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{
		{Name: "a1"}, {Name: "a2"},
	}, nil)
	client.On("CreateAddressGroup", mock.Anything, "dmz", mock.MatchedBy(func(g fortios.AddressGroup) bool {
		return g.Name == "grp_dcn" && len(g.Member) == 2
	})).Return(nil)

	// Duplicate desired entries must collapse to unique member names.
	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(),
		desiredObjects("a1", "a2", "a1"))

	assert.True(t, result.GroupChanged)
	client.AssertExpectations(t)
}

func TestReconcileScope_UpdatesGroupAndSafeDeletes(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{
		{Name: "grp_dcn", Member: []fortios.GroupMember{{Name: "a1"}, {Name: "a2"}}},
	}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{
		{Name: "a1"}, {Name: "a2"}, {Name: "a3"}, {Name: "a4"},
	}, nil)
	client.On("UpdateAddressGroup", mock.Anything, "dmz", "grp_dcn", mock.MatchedBy(func(g fortios.AddressGroup) bool {
		return len(g.Member) == 3
	})).Return(nil)
	client.On("GetAddress", mock.Anything, "dmz", "a2").Return(&fortios.AddressDetail{Name: "a2", ReferenceCount: 0}, nil)
	client.On("DeleteAddress", mock.Anything, "dmz", "a2").Return(nil)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(),
		desiredObjects("a1", "a3", "a4"))

	assert.True(t, result.GroupChanged)
	assert.Equal(t, 1, result.Deleted)
	client.AssertExpectations(t)
}

func TestReconcileScope_NoUpdateWhenConverged(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{
		{Name: "grp_dcn", Member: []fortios.GroupMember{{Name: "a1"}, {Name: "a2"}}},
	}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{
		{Name: "a1"}, {Name: "a2"},
	}, nil)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(),
		desiredObjects("a1", "a2"))

	assert.False(t, result.GroupChanged)
	client.AssertNotCalled(t, "UpdateAddressGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileScope_SafeDelete_ReferencedObjectKept(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{
		{Name: "grp_dcn", Member: []fortios.GroupMember{{Name: "a1"}, {Name: "a2"}}},
	}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{
		{Name: "a1"}, {Name: "a2"},
	}, nil)
	client.On("UpdateAddressGroup", mock.Anything, "dmz", "grp_dcn", mock.Anything).Return(nil)
	client.On("GetAddress", mock.Anything, "dmz", "a2").Return(&fortios.AddressDetail{Name: "a2", ReferenceCount: 3}, nil)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(), desiredObjects("a1"))

	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, 1, result.DeleteSkipped)
	client.AssertNotCalled(t, "DeleteAddress", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileScope_SafeDelete_RefCountFetchFailureKeepsObject(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{
		{Name: "grp_dcn", Member: []fortios.GroupMember{{Name: "a1"}, {Name: "a2"}}},
	}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{
		{Name: "a1"}, {Name: "a2"},
	}, nil)
	client.On("UpdateAddressGroup", mock.Anything, "dmz", "grp_dcn", mock.Anything).Return(nil)
	client.On("GetAddress", mock.Anything, "dmz", "a2").Return(nil, assert.AnError)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(), desiredObjects("a1"))

	assert.Equal(t, 0, result.Deleted)
	assert.Equal(t, 1, result.DeleteSkipped)
	client.AssertNotCalled(t, "DeleteAddress", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileScope_NoDeleteWhenGroupUpdateFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{
		{Name: "grp_dcn", Member: []fortios.GroupMember{{Name: "a1"}, {Name: "a2"}}},
	}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{
		{Name: "a1"}, {Name: "a2"},
	}, nil)
	client.On("UpdateAddressGroup", mock.Anything, "dmz", "grp_dcn", mock.Anything).Return(assert.AnError)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), params(), desiredObjects("a1"))

	assert.False(t, result.GroupChanged)
	client.AssertNotCalled(t, "GetAddress", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "DeleteAddress", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileScope_IPv6UsesIPv6Tables(t *testing.T) {
	p := params()
	p.Family = addressing.FamilyIPv6

	client := new(mocks.Client)
	client.On("GetAddressGroups6", mock.Anything, "dmz").Return([]fortios.AddressGroup{}, nil)
	client.On("GetAddresses6", mock.Anything, "dmz").Return([]fortios.Address6{}, nil)
	client.On("CreateAddress6", mock.Anything, "dmz", mock.MatchedBy(func(a fortios.Address6) bool {
		return a.Name == "netbox6_2001:db8::/32" && a.IP6 == "2001:db8::/32"
	})).Return(nil)
	client.On("CreateAddressGroup6", mock.Anything, "dmz", mock.MatchedBy(func(g fortios.AddressGroup) bool {
		return g.Name == "grp6_dcn"
	})).Return(nil)

	desired := []addressing.Object{{
		Name:   "netbox6_2001:db8::/32",
		Family: addressing.FamilyIPv6,
		Value:  "2001:db8::/32",
	}}

	result := ReconcileScope(context.Background(), client, zap.NewNop(), p, desired)

	assert.Equal(t, 1, result.Created)
	assert.True(t, result.GroupChanged)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "GetAddresses", mock.Anything, mock.Anything)
}

func TestReconcileScope_GroupManagementDisabled(t *testing.T) {
	p := params()
	p.ManageGroups = false

	client := new(mocks.Client)
	client.On("GetAddressGroups", mock.Anything, "dmz").Return([]fortios.AddressGroup{}, nil)
	client.On("GetAddresses", mock.Anything, "dmz").Return([]fortios.Address{}, nil)
	client.On("CreateAddress", mock.Anything, "dmz", mock.Anything).Return(nil)

	result := ReconcileScope(context.Background(), client, zap.NewNop(), p, desiredObjects("a1"))

	assert.Equal(t, 1, result.Created)
	client.AssertNotCalled(t, "CreateAddressGroup", mock.Anything, mock.Anything, mock.Anything)
}
