// Package minio implements db.Store over MinIO and other S3-compatible object storage.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kailas-cloud/cardiofeat/internal/db"
)

var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a MinIO store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	Region    string
	UseSSL    bool
}

// Store keeps each key as an object under prefix in bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a MinIO client and a Store over cfg.Bucket.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return NewStoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewStoreWithClient wraps an existing client. prefix is prepended to all keys.
func NewStoreWithClient(client *minio.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Ping checks that the bucket exists and is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if !ok {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("bucket %s does not exist", s.bucket)}
	}
	return nil
}

// Get downloads the object for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapErr(db.OpGet, key, err)
	}
	defer func() { _ = obj.Close() }()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapErr(db.OpGet, key, err)
	}
	return data, nil
}

// Set uploads value as a single object. S3 PUT replaces the object atomically.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(key),
		bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: contentType(key)})
	if err != nil {
		return &db.Error{Op: db.OpSet, Key: key, Err: err}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady polls Ping until the bucket is reachable or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, s, timeout)
}

func (s *Store) mapErr(op, key string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" || resp.StatusCode == http.StatusNotFound {
		return db.ErrKeyNotFound
	}
	return &db.Error{Op: op, Key: key, Err: err}
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".yaml":
		return "application/yaml"
	default:
		return "text/plain"
	}
}
