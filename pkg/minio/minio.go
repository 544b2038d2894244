// Package minio implements remote.ObjectStore for S3-compatible object
// stores that aren't AWS, such as a local MinIO server used for
// development.
package minio

import (
	"context"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
)

// Config is the connection configuration of the store.
type Config struct {
	// Endpoint is the URL of the store, e.g. http://localhost:9000.
	Endpoint string

	// Profile selects the credentials in the shared AWS credentials file,
	// if they aren't set in the environment.
	Profile string

	Region string
}

// Store is a remote.ObjectStore backed by a MinIO client.
type Store struct {
	client *minio.Client
}

// New connects to the store described by `cfg`.
func New(cfg Config) (Store, error) {
	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return Store{}, errors.WithContext(err, "parse endpoint")
	}
	if endpoint.Host == "" {
		return Store{}, errors.NewFriendlyError(
			"Invalid object store endpoint %q.\nThe endpoint must be a URL such as http://localhost:9000.",
			cfg.Endpoint)
	}

	// Credentials are resolved the same way as the AWS SDK resolves them.
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{Profile: cfg.Profile},
	})

	client, err := minio.New(endpoint.Host, &minio.Options{
		Creds:     creds,
		Secure:    endpoint.Scheme == "https",
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return Store{}, errors.WithContext(err, "create client")
	}
	return Store{client: client}, nil
}

// Stat implements remote.ObjectStore.
func (s Store) Stat(ctx context.Context, bucket, key string) (remote.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return remote.ObjectInfo{}, convertError(err, bucket, key)
	}
	return toObjectInfo(bucket, info), nil
}

// Get implements remote.ObjectStore.
func (s Store) Get(ctx context.Context, bucket, key string) ([]byte, remote.ObjectInfo, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, remote.ObjectInfo{}, convertError(err, bucket, key)
	}
	defer obj.Close()

	// GetObject is lazy, so errors about the object show up once it's read.
	info, err := obj.Stat()
	if err != nil {
		return nil, remote.ObjectInfo{}, convertError(err, bucket, key)
	}

	contents, err := ioutil.ReadAll(obj)
	if err != nil {
		return nil, remote.ObjectInfo{}, errors.WithContext(err, "read object")
	}
	return contents, toObjectInfo(bucket, info), nil
}

// Put implements remote.ObjectStore.
func (s Store) Put(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{})
	return convertError(err, bucket, key)
}

// HeadExists implements remote.ObjectStore.
func (s Store) HeadExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if !isNotFound(err) {
		return false, err
	}

	// A missing bucket is also reported as a missing key.
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return false, errors.WithContext(err, "check bucket")
	}
	if !exists {
		return false, errors.NotFound{Bucket: bucket}
	}
	return false, nil
}

// EnsureBucket creates `bucket` if it doesn't exist yet.
func (s Store) EnsureBucket(ctx context.Context, bucket, region string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.WithContext(err, "check bucket")
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region})
}

func toObjectInfo(bucket string, info minio.ObjectInfo) remote.ObjectInfo {
	return remote.ObjectInfo{
		Bucket:       bucket,
		Key:          info.Key,
		Size:         info.Size,
		LastModified: info.LastModified,
	}
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return resp.StatusCode == http.StatusNotFound
}

func convertError(err error, bucket, key string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return errors.NotFound{Bucket: bucket, Key: key}
	}
	return err
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
