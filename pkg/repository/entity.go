// Package repository implements the authoritative, thread-safe in-memory
// entity store behind the item cache.
package repository

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
)

// IDField is the reserved field name carrying the entity id in JSON form.
const IDField = "id"

// Fields maps field names to values. Decoded JSON yields nil, bool, float64,
// string, []any or map[string]any; Go callers may store other types too.
type Fields map[string]any

// Clone returns a deep copy of f. Nested slices, maps, arrays, pointers and
// exported struct fields are copied, so the result shares no mutable state
// with f. Values must not contain pointer cycles.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case nil, bool, string, float64, int, int64:
		return v
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[k] = cloneValue(inner)
		}
		return m
	case Fields:
		return t.Clone()
	case []any:
		if t == nil {
			return t
		}
		s := make([]any, len(t))
		for i, inner := range t {
			s[i] = cloneValue(inner)
		}
		return s
	default:
		return deepCopy(reflect.ValueOf(v)).Interface()
	}
}

// deepCopy copies any value reachable through reference kinds.
func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(deepCopy(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			// Unexported fields keep the shallow copy made by Set.
			if out.Field(i).CanSet() {
				out.Field(i).Set(deepCopy(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}

// Entity is a stored record: an immutable id plus free-form fields.
type Entity struct {
	// ID is generated at creation and never changes.
	ID string

	// Fields holds every attribute except the id.
	Fields Fields
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	return Entity{ID: e.ID, Fields: e.Fields.Clone()}
}

// Get returns the value of a field. The id is reachable under IDField.
func (e Entity) Get(name string) (any, bool) {
	if name == IDField {
		return e.ID, true
	}
	v, ok := e.Fields[name]
	return v, ok
}

// MarshalJSON encodes the entity as a flat object: {"id": ..., <fields>...}.
func (e Entity) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(e.Fields)+1)
	maps.Copy(flat, e.Fields)
	flat[IDField] = e.ID
	return json.Marshal(flat)
}

// UnmarshalJSON decodes a flat object produced by MarshalJSON.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("decode entity: %w", err)
	}

	id, _ := flat[IDField].(string)
	delete(flat, IDField)

	e.ID = id
	e.Fields = Fields(flat)
	return nil
}

// CloneAll deep-copies a slice of entities.
func CloneAll(entities []Entity) []Entity {
	if entities == nil {
		return nil
	}
	out := make([]Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}
