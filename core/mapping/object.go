package mapping

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"inventory-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectBackend stores mappings as a JSON object in S3 compatible storage.
type ObjectBackend struct {
	client storage.Client
	bucket string
	key    string
}

// NewObjectBackend creates an object backend for bucket/key.
func NewObjectBackend(client storage.Client, bucket, key string) *ObjectBackend {
	return &ObjectBackend{client: client, bucket: bucket, key: key}
}

// Describe implements Backend.
func (b *ObjectBackend) Describe() string {
	return fmt.Sprintf("object %s/%s", b.bucket, b.key)
}

// Load implements Backend. A missing object or bucket is an empty store.
func (b *ObjectBackend) Load(ctx context.Context) ([]Entry, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer obj.Close()

	// minio defers the request until the first read, so not-found shows up here.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return []Entry{}, nil
		}
		return nil, err
	}

	return decodeJSON(data)
}

// Save implements Backend. A single PUT replaces the object for readers.
func (b *ObjectBackend) Save(ctx context.Context, entries []Entry) error {
	data, err := encodeJSON(entries)
	if err != nil {
		return err
	}

	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", b.bucket, err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
		}
	}

	_, err = b.client.PutObject(ctx, b.bucket, b.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	default:
		return false
	}
}
