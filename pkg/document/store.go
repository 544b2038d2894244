package document

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// LoadResult is the outcome of loading a local document. A document that
// doesn't exist on disk is an expected outcome rather than an error.
type LoadResult struct {
	doc   Object
	found bool
}

// Found returns a LoadResult holding `doc`.
func Found(doc Object) LoadResult {
	return LoadResult{doc: doc, found: true}
}

// NotFound returns a LoadResult for a document that doesn't exist.
func NotFound() LoadResult {
	return LoadResult{}
}

// Document returns the loaded document, and whether it was found.
func (res LoadResult) Document() (Object, bool) {
	return res.doc, res.found
}

// Load reads the JSON object stored at `path`.
func Load(fs afero.Fs, path string) (LoadResult, error) {
	v, found, err := LoadValue(fs, path)
	if err != nil || !found {
		return NotFound(), err
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return NotFound(), errors.NewFriendlyError(
			"The local config %q doesn't contain a JSON object.\n"+
				"Delete it and pull the experiment again.", path)
	}
	return Found(Object(obj)), nil
}

// LoadValue reads any JSON value stored at `path`. The boolean result is
// false if the file doesn't exist.
func LoadValue(fs afero.Fs, path string) (interface{}, bool, error) {
	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.WithContext(err, "read")
	}

	var v interface{}
	if err := json.Unmarshal(contents, &v); err != nil {
		return nil, false, errors.WithContext(err, "parse json")
	}
	return v, true, nil
}

// Save writes `doc` to `path` as canonical JSON, creating any missing parent
// directories. Existing files are overwritten. The write isn't atomic: a
// crash mid-write can leave a truncated file behind.
func Save(fs afero.Fs, doc Object, path string) error {
	return SaveValue(fs, map[string]interface{}(doc), path)
}

// SaveValue is Save for any JSON value.
func SaveValue(fs afero.Fs, v interface{}, path string) error {
	contents, err := Marshal(v)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "create parent directory")
	}

	if err := afero.WriteFile(fs, path, contents, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}
