package pull

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/biomage-org/biomage-utils/pkg/document"
	"github.com/biomage-org/biomage-utils/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// materialize converts downloaded contents into what's stored on disk for
// the given kind.
func materialize(kind Kind, contents []byte) ([]byte, error) {
	switch kind {
	case KindRDS:
		return gzipRDS(contents)
	case KindJSON:
		return canonicalJSON(contents)
	}
	return nil, fmt.Errorf("no materializer for %s artifacts", kind)
}

// gzipRDS compresses the dataset, unless the object store already holds it
// compressed.
func gzipRDS(contents []byte) ([]byte, error) {
	if bytes.HasPrefix(contents, gzipMagic) {
		return contents, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(contents); err != nil {
		return nil, errors.WithContext(err, "compress")
	}
	if err := zw.Close(); err != nil {
		return nil, errors.WithContext(err, "flush")
	}
	return buf.Bytes(), nil
}

func canonicalJSON(contents []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(contents, &v); err != nil {
		return nil, errors.WithContext(err, "parse json")
	}
	return document.Marshal(v)
}

func writeFile(path string, contents []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "create parent directory")
	}
	return afero.WriteFile(fs, path, contents, 0644)
}
