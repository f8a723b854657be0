// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so that inventory exports can be read from a
// bucket prefix and generated reports can be published back to it. Both AWS
// S3 and self-hosted MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the target bucket on first use.
//   - Upload: publishes a report with its content type.
//   - ListKeys: lists spreadsheet objects under a prefix.
//   - Download: reads one object into memory for parsing.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	keys, err := storage.ListKeys(ctx, client, cfg.Storage.Bucket, "inbox/")
package storage
