package syncer

import (
	"context"
	"testing"
	"time"

	storagemocks "github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/storage/mocks"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReport() *RunReport {
	return &RunReport{
		RunID:    uuid.MustParse("a3f1b2c4-0000-0000-0000-000000000001"),
		Priority: "high",
		Started:  time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Finished: time.Date(2026, 8, 25, 12, 0, 42, 0, time.UTC),
	}
}

func TestArchive_DatePartitionedKey(t *testing.T) {
	client := new(storagemocks.Client)
	client.On("BucketExists", mock.Anything, "sync-reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "sync-reports",
		"2026/08/25/a3f1b2c4-0000-0000-0000-000000000001.json",
		mock.Anything, mock.Anything, mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == "application/json"
		})).Return(minio.UploadInfo{}, nil)

	archiver := NewReportArchiver(client, "sync-reports", zap.NewNop())
	err := archiver.Archive(context.Background(), testReport())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestArchive_CreatesMissingBucket(t *testing.T) {
	client := new(storagemocks.Client)
	client.On("BucketExists", mock.Anything, "sync-reports").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "sync-reports", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "sync-reports", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	archiver := NewReportArchiver(client, "sync-reports", zap.NewNop())
	err := archiver.Archive(context.Background(), testReport())

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestArchive_UploadFailure(t *testing.T) {
	client := new(storagemocks.Client)
	client.On("BucketExists", mock.Anything, "sync-reports").Return(true, nil)
	client.On("PutObject", mock.Anything, "sync-reports", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, assert.AnError)

	archiver := NewReportArchiver(client, "sync-reports", zap.NewNop())
	err := archiver.Archive(context.Background(), testReport())

	assert.Error(t, err)
}
