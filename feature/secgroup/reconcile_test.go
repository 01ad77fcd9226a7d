package secgroup

import (
	"context"
	"testing"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/nsx"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/nsx/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestBuildGroup(t *testing.T) {
	group := BuildGroup(Params{
		Key:         "dcn",
		Description: "managed by ipam sync",
		TagScope:    "origin",
		TagValue:    "netbox",
	}, []string{"10.0.0.0/24", "10.0.1.0/24", "10.0.0.0/24"})

	assert.Equal(t, "nsg-dcn", group.ID)
	assert.Equal(t, "nsg-dcn", group.DisplayName)
	assert.Equal(t, "managed by ipam sync", group.Description)
	assert.Equal(t, []nsx.Tag{{Scope: "origin", Tag: "netbox"}}, group.Tags)

	assert.Len(t, group.Expression, 1)
	assert.Equal(t, nsx.ResourceTypeIPAddressExpression, group.Expression[0].ResourceType)
	assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.0/24"}, group.Expression[0].IPAddresses)
}

func TestBuildGroup_EmptyValuesOmitsExpression(t *testing.T) {
	group := BuildGroup(Params{Key: "dcn"}, nil)
	assert.Empty(t, group.Expression)
}

func TestBuildGroup_TagRequiresBothScopeAndValue(t *testing.T) {
	assert.Empty(t, BuildGroup(Params{Key: "a", TagScope: "origin"}, nil).Tags)
	assert.Empty(t, BuildGroup(Params{Key: "a", TagValue: "netbox"}, nil).Tags)
}

func TestReconcile_CreatesAbsentGroup(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetGroup", mock.Anything, "default", "nsg-dcn").Return(nil, nsx.ErrNotFound)
	client.On("PatchGroup", mock.Anything, "default", "nsg-dcn", mock.MatchedBy(func(g nsx.Group) bool {
		return len(g.Expression) == 1 && len(g.Expression[0].IPAddresses) == 2
	})).Return(nil)

	result := Reconcile(context.Background(), client, zap.NewNop(), "nsx1.example.com", "default",
		Params{Key: "dcn"}, []string{"10.0.0.0/24", "2001:db8::/32"})

	assert.True(t, result.Created)
	assert.True(t, result.Changed)
	client.AssertExpectations(t)
}

func TestReconcile_ReadFailureStillWritesDesiredState(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetGroup", mock.Anything, "default", "nsg-dcn").Return(nil, assert.AnError)
	client.On("PatchGroup", mock.Anything, "default", "nsg-dcn", mock.Anything).Return(nil)

	result := Reconcile(context.Background(), client, zap.NewNop(), "nsx1.example.com", "default",
		Params{Key: "dcn"}, []string{"10.0.0.0/24"})

	assert.True(t, result.Changed)
	client.AssertExpectations(t)
}

func TestReconcile_SingleReplaceOnDrift(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetGroup", mock.Anything, "default", "nsg-dcn").Return(&nsx.Group{
		ID:          "nsg-dcn",
		DisplayName: "nsg-dcn",
		Expression: []nsx.Expression{{
			ResourceType: nsx.ResourceTypeIPAddressExpression,
			IPAddresses:  []string{"10.0.0.1"},
		}},
	}, nil)
	client.On("PatchGroup", mock.Anything, "default", "nsg-dcn", mock.MatchedBy(func(g nsx.Group) bool {
		return len(g.Expression) == 1 &&
			len(g.Expression[0].IPAddresses) == 1 &&
			g.Expression[0].IPAddresses[0] == "10.0.0.2"
	})).Return(nil)

	result := Reconcile(context.Background(), client, zap.NewNop(), "nsx1.example.com", "default",
		Params{Key: "dcn"}, []string{"10.0.0.2"})

	assert.True(t, result.Changed)
	assert.False(t, result.Created)
	// Exactly one write replaces the whole membership.
	client.AssertNumberOfCalls(t, "PatchGroup", 1)
}

func TestReconcile_NoWriteWhenConverged(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetGroup", mock.Anything, "default", "nsg-dcn").Return(&nsx.Group{
		ID:          "nsg-dcn",
		DisplayName: "nsg-dcn",
		Expression: []nsx.Expression{{
			ResourceType: nsx.ResourceTypeIPAddressExpression,
			IPAddresses:  []string{"10.0.0.0/24", "10.0.1.0/24"},
		}},
	}, nil)

	result := Reconcile(context.Background(), client, zap.NewNop(), "nsx1.example.com", "default",
		Params{Key: "dcn"}, []string{"10.0.1.0/24", "10.0.0.0/24"})

	// Order differences are not drift.
	assert.False(t, result.Changed)
	client.AssertNotCalled(t, "PatchGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_IgnoresForeignExpressionTypes(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetGroup", mock.Anything, "default", "nsg-dcn").Return(&nsx.Group{
		ID: "nsg-dcn",
		Expression: []nsx.Expression{
			{ResourceType: "Condition"},
			{ResourceType: nsx.ResourceTypeIPAddressExpression, IPAddresses: []string{"10.0.0.0/24"}},
		},
	}, nil)

	result := Reconcile(context.Background(), client, zap.NewNop(), "nsx1.example.com", "default",
		Params{Key: "dcn"}, []string{"10.0.0.0/24"})

	assert.False(t, result.Changed)
}

func TestReconcile_PatchFailureReported(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetGroup", mock.Anything, "default", "nsg-dcn").Return(nil, nsx.ErrNotFound)
	client.On("PatchGroup", mock.Anything, "default", "nsg-dcn", mock.Anything).Return(assert.AnError)

	result := Reconcile(context.Background(), client, zap.NewNop(), "nsx1.example.com", "default",
		Params{Key: "dcn"}, []string{"10.0.0.0/24"})

	assert.False(t, result.Changed)
	assert.NotEmpty(t, result.Error)
}
