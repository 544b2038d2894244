package document

// RemoveKey returns a copy of `obj` with `key` removed from it and from
// every object nested directly inside it.
//
// Objects inside arrays are NOT descended into, so
// `{"a": [{"pipeline": 1}]}` keeps its nested "pipeline" key. The remote
// records that get sanitized only carry the key in object values, and
// callers rely on array contents being left untouched.
//
// `obj` itself isn't modified. Values other than objects are shared with
// the input.
func RemoveKey(obj Object, key string) Object {
	return Object(removeKey(obj, key))
}

func removeKey(obj map[string]interface{}, key string) map[string]interface{} {
	if obj == nil {
		return nil
	}

	sanitized := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		if k == key {
			continue
		}

		switch nested := v.(type) {
		case map[string]interface{}:
			sanitized[k] = removeKey(nested, key)
		case Object:
			sanitized[k] = Object(removeKey(nested, key))
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}
