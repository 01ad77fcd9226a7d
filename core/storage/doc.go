// Package storage provides an abstraction layer for the run-report archive.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the report archiver needs: checking bucket existence, uploading
// report objects and listing past reports. The abstraction supports both AWS
// S3 and self-hosted MinIO instances.
//
// The Client interface makes storage interactions mockable for unit testing
// (see core/storage/mocks).
package storage
