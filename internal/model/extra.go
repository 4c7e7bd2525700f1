package model

import (
	"encoding/json"
	"reflect"
	"strings"
)

// extraFields returns the members of the JSON object b that no json tag of
// struct type t claims, or nil when there are none.
func extraFields(b []byte, t reflect.Type) (map[string]any, error) {
	var all map[string]any
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, err
	}
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			delete(all, name)
		}
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// withExtra encodes v and adds the extra members to the resulting object.
// A member v already encodes is never overwritten.
func withExtra(v any, extra map[string]any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, err
	}
	for k, x := range extra {
		if _, ok := obj[k]; ok {
			continue
		}
		raw, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		obj[k] = raw
	}
	return json.Marshal(obj)
}
