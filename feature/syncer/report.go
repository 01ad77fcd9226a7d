package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/storage"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/firewall"
	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/feature/secgroup"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RunReport is the aggregate outcome of one sync run.
type RunReport struct {
	RunID    uuid.UUID `json:"run_id"`
	Priority string    `json:"priority,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	Integrators []IntegratorReport `json:"integrators"`
}

// IntegratorReport is the outcome of one integrator within a run.
type IntegratorReport struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	// Skipped is set when the desired state could not be fetched and the
	// integrator contributed nothing to this run.
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`

	Prefixes       int               `json:"prefixes"`
	Firewalls      []firewall.Result `json:"firewalls,omitempty"`
	SecurityGroups []secgroup.Result `json:"security_groups,omitempty"`
}

// ReportArchiver writes finished run reports to object storage.
type ReportArchiver struct {
	client storage.Client
	bucket string
	log    *zap.Logger
}

// NewReportArchiver creates an archiver writing into the given bucket.
func NewReportArchiver(client storage.Client, bucket string, log *zap.Logger) *ReportArchiver {
	return &ReportArchiver{client: client, bucket: bucket, log: log}
}

// Archive stores one run report as a JSON object. The object key is
// date-partitioned so reports can be listed per day.
func (a *ReportArchiver) Archive(ctx context.Context, report *RunReport) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("syncer: check report bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("syncer: create report bucket: %w", err)
		}
		a.log.Info("Created report bucket", zap.String("bucket", a.bucket))
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("syncer: marshal run report: %w", err)
	}

	key := fmt.Sprintf("%s/%s.json", report.Started.UTC().Format("2006/01/02"), report.RunID)
	_, err = a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("syncer: store run report: %w", err)
	}

	a.log.Info("Archived run report",
		zap.String("bucket", a.bucket),
		zap.String("key", key))
	return nil
}
