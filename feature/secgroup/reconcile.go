package secgroup

import (
	"context"
	"errors"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/nsx"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/addressing"

	"go.uber.org/zap"
)

// Result reports the outcome of reconciling one security group on one
// endpoint.
type Result struct {
	Hostname string `json:"hostname"`
	Domain   string `json:"domain"`
	GroupID  string `json:"group_id"`
	Changed  bool   `json:"changed"`
	Created  bool   `json:"created"`
	Error    string `json:"error,omitempty"`
}

// Reconcile converges one managed policy group toward the desired value
// list. The group is replaced wholesale with a single patch; there are no
// per-member calls. A group that cannot be read is treated as absent and
// created, so transient read failures converge on the next write rather
// than blocking it.
func Reconcile(ctx context.Context, client nsx.Client, log *zap.Logger, hostname, domain string, p Params, values []string) Result {
	desired := BuildGroup(p, values)
	result := Result{Hostname: hostname, Domain: domain, GroupID: desired.ID}

	log = log.With(
		zap.String("hostname", hostname),
		zap.String("domain", domain),
		zap.String("group", desired.ID),
	)

	observed, err := client.GetGroup(ctx, domain, desired.ID)
	if err != nil {
		if !errors.Is(err, nsx.ErrNotFound) {
			log.Warn("Reading security group failed, writing desired state", zap.Error(err))
		}
		if err := client.PatchGroup(ctx, domain, desired.ID, desired); err != nil {
			log.Error("Creating security group failed", zap.Error(err))
			result.Error = err.Error()
			return result
		}
		log.Info("Created security group", zap.Int("values", len(values)))
		result.Created = true
		result.Changed = true
		return result
	}

	diff := addressing.ListDiff(observedValues(observed), observedValues(&desired))
	if diff.Empty() {
		log.Debug("Security group already converged")
		return result
	}

	if err := client.PatchGroup(ctx, domain, desired.ID, desired); err != nil {
		log.Error("Updating security group failed", zap.Error(err))
		result.Error = err.Error()
		return result
	}
	log.Info("Updated security group",
		zap.Strings("added", diff.Added),
		zap.Strings("removed", diff.Removed))
	result.Changed = true
	return result
}
