package aws

import (
	"context"
	"io"
	"io/ioutil"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	log "github.com/sirupsen/logrus"

	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
)

// S3Store is a remote.ObjectStore backed by S3.
type S3Store struct {
	client   s3iface.S3API
	uploader s3manageriface.UploaderAPI
}

// NewS3Store creates an S3Store that uses `sess`.
func NewS3Store(sess *session.Session) S3Store {
	client := s3.New(sess)
	return S3Store{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
	}
}

// Stat implements remote.ObjectStore.
func (store S3Store) Stat(ctx context.Context, bucket, key string) (remote.ObjectInfo, error) {
	out, err := store.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return remote.ObjectInfo{}, convertError(err, bucket, key)
	}

	return remote.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         aws.Int64Value(out.ContentLength),
		LastModified: aws.TimeValue(out.LastModified),
	}, nil
}

// Get implements remote.ObjectStore.
func (store S3Store) Get(ctx context.Context, bucket, key string) ([]byte, remote.ObjectInfo, error) {
	out, err := store.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, remote.ObjectInfo{}, convertError(err, bucket, key)
	}
	defer out.Body.Close()

	contents, err := ioutil.ReadAll(out.Body)
	if err != nil {
		return nil, remote.ObjectInfo{}, errors.WithContext(err, "read body")
	}

	info := remote.ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         int64(len(contents)),
		LastModified: aws.TimeValue(out.LastModified),
	}
	return contents, info, nil
}

// Put implements remote.ObjectStore. The uploader splits large bodies into
// multiple parts, so `size` is only used for logging.
func (store S3Store) Put(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	out, err := store.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return convertError(err, bucket, key)
	}

	log.WithFields(log.Fields{
		"location": out.Location,
		"size":     size,
	}).Debug("Uploaded object to S3")
	return nil
}

// HeadExists implements remote.ObjectStore.
func (store S3Store) HeadExists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := store.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if !isNotFound(err) {
		return false, convertError(err, bucket, key)
	}

	// HEAD responses have no body, so a missing key can't be told apart
	// from a missing bucket without asking about the bucket.
	_, err = store.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return false, errors.WithContext(convertError(err, bucket, ""), "head bucket")
	}
	return false, nil
}

func isNotFound(err error) bool {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return false
	}

	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
		return true
	}
	return false
}

func convertError(err error, bucket, key string) error {
	if isNotFound(err) {
		return errors.NotFound{Bucket: bucket, Key: key}
	}
	return err
}
