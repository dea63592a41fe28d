package skema

import (
	"context"
	"reflect"
	"strings"
	"unicode"
)

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// external key used when importing from structs.
// Priority: skema:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("skema"); gt != "" {
		parts := strings.Split(gt, ",")
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "-" {
				return "-"
			}
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if jt[:i] != "" {
				return jt[:i]
			}
			return sf.Name
		}
		return jt
	}
	return sf.Name
}

// ExportedName converts a snake_case identifier into the Go exported form
// used for accessor methods ("first_name" -> "FirstName", "id" -> "ID").
func ExportedName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	var b strings.Builder
	for _, p := range parts {
		if up := strings.ToUpper(p); commonInitialisms[up] {
			b.WriteString(up)
			continue
		}
		rs := []rune(p)
		rs[0] = unicode.ToUpper(rs[0])
		b.WriteString(string(rs))
	}
	return b.String()
}

var commonInitialisms = map[string]bool{
	"API": true, "HTML": true, "HTTP": true, "ID": true, "IP": true,
	"JSON": true, "SQL": true, "URI": true, "URL": true, "UUID": true,
}

// toStringMap views src as a string-keyed mapping. map[string]any is used
// as-is; other maps with string keys are copied.
func toStringMap(src any) (map[string]any, bool) {
	switch m := src.(type) {
	case map[string]any:
		return m, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(src)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return map[string]any{}, true
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// toSlice views src as a sequence of values. Byte slices and strings are
// not sequences.
func toSlice(src any) ([]any, bool) {
	switch s := src.(type) {
	case []any:
		return s, true
	case nil, []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(src)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// callAccessor looks up an exported accessor method named after name on src
// and calls it. Accepted signatures take no argument or a single
// context.Context, and return a value optionally followed by an error.
func callAccessor(ctx context.Context, src reflect.Value, name string) (any, bool, error) {
	if !src.IsValid() || (src.Kind() == reflect.Pointer && src.IsNil()) {
		return nil, false, nil
	}
	m := src.MethodByName(ExportedName(name))
	if !m.IsValid() {
		return nil, false, nil
	}
	mt := m.Type()
	var args []reflect.Value
	switch {
	case mt.NumIn() == 0:
	case mt.NumIn() == 1 && mt.In(0) == contextType:
		args = []reflect.Value{reflect.ValueOf(ctx)}
	default:
		return nil, false, nil
	}
	switch {
	case mt.NumOut() == 1:
	case mt.NumOut() == 2 && mt.Out(1) == errorType:
	default:
		return nil, false, nil
	}
	out := m.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, true, out[1].Interface().(error)
	}
	return out[0].Interface(), true, nil
}

// structField finds the exported field of a struct whose resolved key, or
// Go name, matches name.
func structField(src reflect.Value, name string) (any, bool) {
	for src.Kind() == reflect.Pointer || src.Kind() == reflect.Interface {
		if src.IsNil() {
			return nil, false
		}
		src = src.Elem()
	}
	if src.Kind() != reflect.Struct {
		return nil, false
	}
	goName := ExportedName(name)
	st := src.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		if key == name || sf.Name == goName {
			return src.Field(i).Interface(), true
		}
	}
	return nil, false
}

// isNil reports whether v is nil or a typed nil pointer, map, slice or
// interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
