// Package document holds the JSON documents that biomage moves between the
// remote record tables and the local experiment directory.
//
// Documents are plain Go maps, but their values are restricted to the closed
// set produced by encoding/json: nil, bool, float64, string, []interface{}
// and map[string]interface{}. Values decoded by other libraries (for example
// DynamoDB attribute values, which may contain typed sets or numbers) must be
// passed through Normalize before they are compared or saved, so that a
// document read back from disk compares equal to the one that was written.
package document

import (
	"bytes"
	"encoding/json"

	"github.com/google/go-cmp/cmp"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// Object is a JSON object.
type Object map[string]interface{}

// Normalize converts `v` into the closed JSON value set by round-tripping it
// through its JSON encoding.
func Normalize(v interface{}) (interface{}, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithContext(err, "marshal")
	}

	var normalized interface{}
	if err := json.Unmarshal(jsonBytes, &normalized); err != nil {
		return nil, errors.WithContext(err, "unmarshal")
	}
	return normalized, nil
}

// NormalizeObject is Normalize for values that must be JSON objects.
func NormalizeObject(v interface{}) (Object, error) {
	normalized, err := Normalize(v)
	if err != nil {
		return nil, err
	}

	obj, ok := normalized.(map[string]interface{})
	if !ok {
		return nil, errors.New("document is not a JSON object")
	}
	return Object(obj), nil
}

// Equal returns whether two documents are structurally equal. There are no
// partial comparisons: any difference at any depth makes them unequal.
func Equal(a, b Object) bool {
	return cmp.Equal(map[string]interface{}(a), map[string]interface{}(b))
}

// Marshal returns the canonical JSON encoding of `v`: keys sorted, two space
// indentation, and a trailing newline.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
