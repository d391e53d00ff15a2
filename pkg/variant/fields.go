package variant

import (
	"encoding/json"
	"reflect"
	"strings"
)

var jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// acceptsField reports whether a strict decoder will accept an object key
// named field for type t. Types with their own unmarshalers own their schema
// and are trusted to accept it.
func acceptsField(t reflect.Type, field string) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(jsonUnmarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Map, reflect.Interface:
		return true
	case reflect.Struct:
		return declaresField(t, field, 0)
	default:
		return false
	}
}

// declaresField walks exported struct fields (including promoted fields of
// embedded structs) the way encoding/json does. Matching is case-insensitive
// because encoding/json matches keys that way on decode.
func declaresField(t reflect.Type, field string, depth int) bool {
	if depth > 8 {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if declaresField(ft, field, depth+1) {
					return true
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.EqualFold(name, field) {
			return true
		}
	}
	return false
}
