package firewall

import (
	"context"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/fortios"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/addressing"

	"go.uber.org/zap"
)

// Params identifies one reconciliation unit: one scope of one endpoint, for
// one address family, on behalf of one integrator.
type Params struct {
	Integrator string
	Hostname   string
	Scope      string
	Family     addressing.Family
	// ManageGroups enables group create/update and the safe-delete pass.
	ManageGroups bool
	// GroupKey is the key the managed group name derives from.
	GroupKey string
}

// Result reports the outcome of one reconciliation unit. Individual call
// failures are logged and counted; they never abort the unit.
type Result struct {
	Hostname string            `json:"hostname"`
	Scope    string            `json:"scope"`
	Family   addressing.Family `json:"family"`
	// Skipped is set when the observed-state snapshot could not be
	// fetched and the whole unit was skipped.
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`

	Created       int  `json:"created"`
	CreateFailed  int  `json:"create_failed"`
	GroupChanged  bool `json:"group_changed"`
	Deleted       int  `json:"deleted"`
	DeleteSkipped int  `json:"delete_skipped"`
}

// ReconcileScope converges one scope of a firewall endpoint toward the
// desired object list. The observed state is snapshotted once up front;
// concurrent external changes are not detected until the next run.
func ReconcileScope(ctx context.Context, client fortios.Client, log *zap.Logger, p Params, desired []addressing.Object) Result {
	result := Result{Hostname: p.Hostname, Scope: p.Scope, Family: p.Family}

	log = log.With(
		zap.String("integrator", p.Integrator),
		zap.String("hostname", p.Hostname),
		zap.String("scope", p.Scope),
		zap.Int("family", int(p.Family)),
	)

	api := newScopeAPI(client, p.Family)

	// Snapshot observed state. A failed fetch skips this scope only.
	existingGroups, err := api.ExistingGroups(ctx, p.Scope)
	if err != nil {
		log.Warn("Fetching existing groups failed, skipping scope", zap.Error(err))
		result.Skipped = true
		result.Error = err.Error()
		return result
	}
	existingObjects, err := api.ExistingAddresses(ctx, p.Scope)
	if err != nil {
		log.Warn("Fetching existing addresses failed, skipping scope", zap.Error(err))
		result.Skipped = true
		result.Error = err.Error()
		return result
	}

	// Create missing address objects. One failure never blocks the rest.
	for _, obj := range desired {
		if _, ok := existingObjects[obj.Name]; ok {
			continue
		}
		if err := api.CreateAddress(ctx, p.Scope, obj); err != nil {
			log.Error("Creating address object failed", zap.String("object", obj.Name), zap.Error(err))
			result.CreateFailed++
			continue
		}
		log.Info("Created address object", zap.String("object", obj.Name))
		result.Created++
	}

	if !p.ManageGroups || p.GroupKey == "" {
		return result
	}

	desiredGroup := addressing.Group{
		Name:    addressing.GroupName(p.GroupKey, p.Family),
		Members: addressing.MemberNames(desired),
		Comment: p.Integrator,
	}

	existingGroup, ok := existingGroups[desiredGroup.Name]
	if !ok {
		if err := api.CreateGroup(ctx, p.Scope, desiredGroup); err != nil {
			log.Error("Creating address group failed", zap.String("group", desiredGroup.Name), zap.Error(err))
			result.Error = err.Error()
			return result
		}
		log.Info("Created address group",
			zap.String("group", desiredGroup.Name),
			zap.Int("members", len(desiredGroup.Members)))
		result.GroupChanged = true
		return result
	}

	diff, err := addressing.GroupDiff(&existingGroup, &desiredGroup)
	if err != nil {
		// Both groups are non-nil here; a diff failure is a programming
		// error and aborts only this unit.
		log.Error("Group diff failed", zap.String("group", desiredGroup.Name), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	if diff.Empty() {
		log.Debug("Address group already converged", zap.String("group", desiredGroup.Name))
		return result
	}

	// The update replaces the whole member list with the desired one.
	if err := api.UpdateGroup(ctx, p.Scope, desiredGroup); err != nil {
		log.Error("Updating address group failed", zap.String("group", desiredGroup.Name), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	log.Info("Updated address group",
		zap.String("group", desiredGroup.Name),
		zap.Strings("added", diff.Added),
		zap.Strings("removed", diff.Removed))
	result.GroupChanged = true

	// Safe delete: removed members are deleted only when nothing else on
	// the target references them, and only after the group update above
	// succeeded. A failed reference-count lookup leaves the object in
	// place rather than risking deletion of an in-use object.
	for _, name := range diff.Removed {
		refs, err := api.ReferenceCount(ctx, p.Scope, name)
		if err != nil {
			log.Warn("Reference count lookup failed, keeping address object",
				zap.String("object", name), zap.Error(err))
			result.DeleteSkipped++
			continue
		}
		if refs != 0 {
			log.Info("Address object still referenced, keeping",
				zap.String("object", name), zap.Int("references", refs))
			result.DeleteSkipped++
			continue
		}
		if err := api.DeleteAddress(ctx, p.Scope, name); err != nil {
			log.Error("Deleting address object failed", zap.String("object", name), zap.Error(err))
			result.DeleteSkipped++
			continue
		}
		log.Info("Deleted address object", zap.String("object", name))
		result.Deleted++
	}

	return result
}
