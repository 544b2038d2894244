// Package remote defines the interfaces through which biomage talks to the
// managed services of an environment: the object store, the document
// tables, and the relational database. Implementations live in pkg/aws,
// pkg/minio and pkg/rds.
package remote

//go:generate mockery -name ObjectStore
//go:generate mockery -name RecordTable
//go:generate mockery -name Querier

import (
	"context"
	"io"
	"time"

	"github.com/biomage-org/biomage-utils/pkg/document"
)

// ObjectInfo describes an object in the object store.
type ObjectInfo struct {
	Bucket       string
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore reads and writes objects. Missing objects are reported with
// errors.NotFound.
type ObjectStore interface {
	// Stat returns the metadata of an object without downloading it.
	Stat(ctx context.Context, bucket, key string) (ObjectInfo, error)

	// Get downloads an object.
	Get(ctx context.Context, bucket, key string) ([]byte, ObjectInfo, error)

	// Put uploads `size` bytes read from `body`, overwriting any existing
	// object.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64) error

	// HeadExists returns whether the object exists. It errors if the bucket
	// itself can't be reached, which makes it usable as a sanity check
	// before uploading.
	HeadExists(ctx context.Context, bucket, key string) (bool, error)
}

// RecordTable reads items from the document tables.
type RecordTable interface {
	// GetItem returns the item identified by `key`, normalized to the JSON
	// value set. Missing items are reported with errors.NotFound.
	GetItem(ctx context.Context, table string, key map[string]string) (document.Object, error)
}

// Row is one result row, keyed by column name.
type Row map[string]interface{}

// Querier runs read-only SQL queries.
type Querier interface {
	Query(ctx context.Context, query string, args ...interface{}) ([]Row, error)
}
