package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/fortios"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/netbox"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/nsx"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/addressing"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/directory"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/firewall"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/secgroup"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRunning is returned when a run is requested while another run
// is still in flight. The caller gets the rejection immediately; nothing is
// queued.
var ErrAlreadyRunning = errors.New("syncer: a sync run is already in progress")

// Service drives sync runs: it loads integrators from the directory, opens
// endpoint handles for the duration of one run and hands the per-target
// work to the firewall and secgroup reconcilers.
type Service struct {
	store    directory.Store
	log      *zap.Logger
	cfg      Config
	archiver *ReportArchiver

	dialNetbox  func(netbox.Config) (netbox.Client, error)
	dialFortios func(fortios.Config) (fortios.Client, error)
	dialNSX     func(nsx.Config) (nsx.Client, error)

	running atomic.Bool
}

// NewService creates a sync service. The archiver may be nil, in which case
// reports are returned to the caller but not persisted.
func NewService(store directory.Store, log *zap.Logger, cfg Config, archiver *ReportArchiver) *Service {
	return &Service{
		store:       store,
		log:         log,
		cfg:         cfg,
		archiver:    archiver,
		dialNetbox:  netbox.NewClient,
		dialFortios: fortios.NewClient,
		dialNSX:     nsx.NewClient,
	}
}

// Run executes one sync run over all enabled integrators of a priority
// class. At most one run is in flight at a time; a second caller gets
// ErrAlreadyRunning without any side effects.
func (s *Service) Run(ctx context.Context, priority string) (*RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	log := s.log.With(zap.String("priority", priority))

	integrators, err := s.store.GetIntegrators(ctx, priority)
	if err != nil {
		return nil, fmt.Errorf("syncer: load integrators: %w", err)
	}

	report := &RunReport{
		RunID:    uuid.New(),
		Priority: priority,
		Started:  time.Now(),
	}
	log = log.With(zap.String("run_id", report.RunID.String()))
	log.Info("Sync run started", zap.Int("integrators", len(integrators)))

	for i := range integrators {
		report.Integrators = append(report.Integrators, s.syncIntegrator(ctx, log, &integrators[i]))
	}

	report.Finished = time.Now()
	log.Info("Sync run finished", zap.Duration("took", report.Finished.Sub(report.Started)))

	s.archive(ctx, log, report)
	return report, nil
}

// RunOne executes a diagnostic run for a single integrator, regardless of
// its enabled flag. The same single-flight gate applies.
func (s *Service) RunOne(ctx context.Context, id uint) (*RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	integrator, err := s.store.GetIntegrator(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		RunID:   uuid.New(),
		Started: time.Now(),
	}
	log := s.log.With(zap.String("run_id", report.RunID.String()))
	log.Info("Diagnostic sync run started", zap.String("integrator", integrator.Name))

	report.Integrators = append(report.Integrators, s.syncIntegrator(ctx, log, integrator))
	report.Finished = time.Now()

	s.archive(ctx, log, report)
	return report, nil
}

func (s *Service) archive(ctx context.Context, log *zap.Logger, report *RunReport) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Archive(ctx, report); err != nil {
		// Archiving is best effort; the run itself already happened.
		log.Warn("Archiving run report failed", zap.Error(err))
	}
}

// syncIntegrator runs one integrator end to end: fetch desired state from
// IPAM once, then push it to every firewall and security target. A failed
// fetch skips the whole integrator; per-target failures are isolated.
func (s *Service) syncIntegrator(ctx context.Context, log *zap.Logger, integrator *directory.Integrator) IntegratorReport {
	report := IntegratorReport{ID: integrator.ID, Name: integrator.Name}
	log = log.With(zap.String("integrator", integrator.Name))

	token, err := resolveEnv(integrator.NetboxTokenEnv)
	if err != nil {
		log.Error("IPAM credentials unavailable, skipping integrator", zap.Error(err))
		report.Skipped = true
		report.Error = err.Error()
		return report
	}

	ipam, err := s.dialNetbox(netbox.Config{
		URL:            integrator.NetboxURL,
		Token:          token,
		TimeoutSeconds: s.cfg.TimeoutSeconds,
	})
	if err != nil {
		log.Error("Opening IPAM handle failed, skipping integrator", zap.Error(err))
		report.Skipped = true
		report.Error = err.Error()
		return report
	}
	defer ipam.Close()

	prefixes, err := ipam.GetPrefixes(ctx, integrator.PrefixQuery)
	if err != nil {
		log.Error("Fetching prefixes failed, skipping integrator", zap.Error(err))
		report.Skipped = true
		report.Error = err.Error()
		return report
	}
	report.Prefixes = len(prefixes)
	log.Info("Fetched desired state", zap.Int("prefixes", len(prefixes)))

	desired := map[addressing.Family][]addressing.Object{
		addressing.FamilyIPv4: addressing.Project(prefixes, addressing.FamilyIPv4),
		addressing.FamilyIPv6: addressing.Project(prefixes, addressing.FamilyIPv6),
	}

	for i := range integrator.FirewallTargets {
		results := s.syncFirewallTarget(ctx, log, integrator, &integrator.FirewallTargets[i], desired)
		report.Firewalls = append(report.Firewalls, results...)
	}

	for i := range integrator.SecurityTargets {
		report.SecurityGroups = append(report.SecurityGroups,
			s.syncSecurityTarget(ctx, log, integrator, &integrator.SecurityTargets[i], prefixes))
	}

	return report
}

// syncFirewallTarget reconciles every scope/family pair of one endpoint
// over a single handle, with bounded parallelism.
func (s *Service) syncFirewallTarget(ctx context.Context, log *zap.Logger, integrator *directory.Integrator, target *directory.FirewallTarget, desired map[addressing.Family][]addressing.Object) []firewall.Result {
	log = log.With(zap.String("hostname", target.Hostname))

	token, err := resolveEnv(target.TokenEnv)
	if err != nil {
		log.Error("Firewall credentials unavailable, skipping target", zap.Error(err))
		return skippedResults(target, err)
	}

	client, err := s.dialFortios(fortios.Config{
		Hostname:           target.Hostname,
		Token:              token,
		TimeoutSeconds:     s.cfg.TimeoutSeconds,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify,
	})
	if err != nil {
		log.Error("Opening firewall handle failed, skipping target", zap.Error(err))
		return skippedResults(target, err)
	}
	defer client.Close()

	var (
		mu      sync.Mutex
		results []firewall.Result
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.MaxConcurrentScopes)

	for _, scope := range target.Scopes() {
		for _, family := range []addressing.Family{addressing.FamilyIPv4, addressing.FamilyIPv6} {
			scope, family := scope, family
			group.Go(func() error {
				result := firewall.ReconcileScope(groupCtx, client, log, firewall.Params{
					Integrator:   integrator.Name,
					Hostname:     target.Hostname,
					Scope:        scope,
					Family:       family,
					ManageGroups: integrator.ManageFirewallGroups,
					GroupKey:     integrator.FirewallGroupKey,
				}, desired[family])

				mu.Lock()
				results = append(results, result)
				mu.Unlock()
				return nil
			})
		}
	}

	// Workers report failures through their Result, never through errors.
	_ = group.Wait()
	return results
}

// syncSecurityTarget reconciles the integrator's security group on one
// endpoint. Desired membership is every prefix of both families, by value.
func (s *Service) syncSecurityTarget(ctx context.Context, log *zap.Logger, integrator *directory.Integrator, target *directory.SecurityTarget, prefixes []netbox.Prefix) secgroup.Result {
	log = log.With(zap.String("hostname", target.Hostname))

	skipped := func(err error) secgroup.Result {
		log.Error("Skipping security target", zap.Error(err))
		return secgroup.Result{
			Hostname: target.Hostname,
			Domain:   target.Domain,
			GroupID:  secgroup.GroupID(integrator.SecurityGroupKey),
			Error:    err.Error(),
		}
	}

	if !integrator.ManageSecurityGroups || integrator.SecurityGroupKey == "" {
		return skipped(errors.New("syncer: security group management is not configured"))
	}

	username, err := resolveEnv(target.UserEnv)
	if err != nil {
		return skipped(err)
	}
	password, err := resolveEnv(target.PasswordEnv)
	if err != nil {
		return skipped(err)
	}

	client, err := s.dialNSX(nsx.Config{
		Hostname:           target.Hostname,
		Username:           username,
		Password:           password,
		TimeoutSeconds:     s.cfg.TimeoutSeconds,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify,
	})
	if err != nil {
		return skipped(err)
	}
	defer client.Close()

	values := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		values = append(values, p.Prefix)
	}

	return secgroup.Reconcile(ctx, client, log, target.Hostname, target.Domain, secgroup.Params{
		Key:         integrator.SecurityGroupKey,
		Description: integrator.SecurityGroupDescription,
		TagScope:    integrator.TagScope,
		TagValue:    integrator.TagValue,
	}, values)
}

// skippedResults marks every scope/family pair of a target as skipped when
// the target could not be reached at all.
func skippedResults(target *directory.FirewallTarget, cause error) []firewall.Result {
	var results []firewall.Result
	for _, scope := range target.Scopes() {
		for _, family := range []addressing.Family{addressing.FamilyIPv4, addressing.FamilyIPv6} {
			results = append(results, firewall.Result{
				Hostname: target.Hostname,
				Scope:    scope,
				Family:   family,
				Skipped:  true,
				Error:    cause.Error(),
			})
		}
	}
	return results
}

// resolveEnv reads a credential from the environment variable the directory
// row names. Secrets never live in the directory itself.
func resolveEnv(name string) (string, error) {
	if name == "" {
		return "", errors.New("syncer: credential environment variable is not configured")
	}
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("syncer: environment variable %s is not set", name)
	}
	return value, nil
}
