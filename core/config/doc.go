// Package config provides configuration management for the sync service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from `default` struct tags on the
// partial configuration structs owned by each package.
//
// # Configuration Structure
//
//   - Server: HTTP server settings (port, API key)
//   - Log: logging level and format
//   - Database: directory database connection details
//   - Reports: run-report object storage (S3/MinIO)
//   - Sync: orchestrator settings (timeouts, per-priority intervals)
package config
