package gotemplate

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/flosch/pongo2/v6"
)

// toContext turns data into plain maps, slices and scalars. Structs go
// through encoding/json so templates use the same names as the HTTP API.
// Funcs are kept as they are.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	plain, err := plainValue(data)
	if err != nil {
		return nil, err
	}
	m, ok := plain.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("gotemplate: data of type %T is not an object", data)
	}
	return pongo2.Context(m), nil
}

func plainValue(value any) (any, error) {
	switch v := value.(type) {
	case nil, string, bool, int, float64:
		return v, nil
	case pongo2.Context:
		return plainValue(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			if key == "" {
				continue
			}
			p, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = p
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			p, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}
	if reflect.ValueOf(value).Kind() == reflect.Func {
		return value, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}
	switch decoded.(type) {
	case map[string]any, []any:
		return plainValue(decoded)
	}
	return decoded, nil
}
