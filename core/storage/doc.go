// Package storage wraps the MinIO client for S3-compatible object storage.
//
// Only the calls needed to keep mapping stores as objects are exposed
// through the Client interface, which keeps them easy to mock (see
// core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
