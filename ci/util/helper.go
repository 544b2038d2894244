package util

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/biomage-org/biomage-utils/pkg/document"
	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/minio"
)

// TestHelper contains methods commonly used during integration tests. The
// tests run against an S3-compatible object store, and an in-memory record
// table.
type TestHelper struct {
	Store     minio.Store
	Records   *MemoryTable
	Env       string
	AccountID string
	Region    string
	DataPath  string
}

// NewTestHelper creates a new TestHelper that uses the object store at
// `endpoint`. The credentials are read from the environment.
func NewTestHelper(endpoint, env, accountID string) (*TestHelper, error) {
	const region = "us-east-1"
	store, err := minio.New(minio.Config{
		Endpoint: endpoint,
		Region:   region,
	})
	if err != nil {
		return nil, errors.WithContext(err, "connect to object store")
	}

	dataPath, err := ioutil.TempDir("", "biomage-ci")
	if err != nil {
		return nil, errors.WithContext(err, "create data path")
	}

	return &TestHelper{
		Store:     store,
		Records:   &MemoryTable{items: map[string]document.Object{}},
		Env:       env,
		AccountID: accountID,
		Region:    region,
		DataPath:  dataPath,
	}, nil
}

// Origin returns the origin that the uploaded files can be pulled from.
// Uploads go to buckets suffixed with the environment and account, while
// pulls only suffix the origin.
func (helper *TestHelper) Origin() string {
	return helper.Env + "-" + helper.AccountID
}

// Bucket returns the name of the environment's bucket with `base`.
func (helper *TestHelper) Bucket(base string) string {
	return base + "-" + helper.Origin()
}

// EnsureBuckets creates the buckets with the given bases.
func (helper *TestHelper) EnsureBuckets(ctx context.Context, bases ...string) error {
	for _, base := range bases {
		bucket := helper.Bucket(base)
		log.WithField("bucket", bucket).Info("Ensuring bucket exists")
		if err := helper.Store.EnsureBucket(ctx, bucket, helper.Region); err != nil {
			return errors.WithContext(err, "ensure bucket "+bucket)
		}
	}
	return nil
}

// WriteInputs writes `files` relative to `dir`.
func WriteInputs(dir string, files map[string]string) error {
	for path, contents := range files {
		path = filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup removes the local data path.
func (helper *TestHelper) Cleanup() {
	if err := os.RemoveAll(helper.DataPath); err != nil {
		log.WithError(err).Warn("Failed to remove data path")
	}
}

// MemoryTable is a remote.RecordTable that keeps its items in memory.
type MemoryTable struct {
	items map[string]document.Object
}

// Put stores `item` under `key` in `table`.
func (t *MemoryTable) Put(table string, key map[string]string, item document.Object) {
	t.items[itemKey(table, key)] = item
}

// GetItem implements remote.RecordTable.
func (t *MemoryTable) GetItem(_ context.Context, table string, key map[string]string) (document.Object, error) {
	item, ok := t.items[itemKey(table, key)]
	if !ok {
		return nil, errors.NotFound{Bucket: table, Key: itemKey("", key)}
	}
	return item, nil
}

func itemKey(table string, key map[string]string) string {
	var parts []string
	for name, value := range key {
		parts = append(parts, name+"="+value)
	}
	sort.Strings(parts)
	return table + "/" + strings.Join(parts, ",")
}
