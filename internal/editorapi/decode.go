package editorapi

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// decodeFields fills the json-tagged fields of the struct dst points to from
// a JSON object. A value of the wrong shape is converted when the intent is
// plain (a whole float for an int, a numeric string for a number, "true" for a
// bool, a number for an identifier) and otherwise leaves the field zero.
// Documents that are not objects leave dst untouched.
func decodeFields(data []byte, dst any) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil || len(members) == 0 {
		return
	}
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf)
		if name == "" {
			continue
		}
		value, ok := lookupMember(members, name)
		if !ok {
			continue
		}
		assignField(v.Field(i), value)
	}
}

// lookupMember prefers an exact key and falls back to a case-insensitive one,
// as encoding/json does.
func lookupMember(members map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if value, ok := members[name]; ok {
		return value, true
	}
	for key, value := range members {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return nil, false
}

func fieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}

func assignField(field reflect.Value, value json.RawMessage) {
	target := reflect.New(field.Type())
	if err := json.Unmarshal(value, target.Interface()); err == nil {
		field.Set(target.Elem())
		return
	}
	if converted, ok := convertValue(value, field.Type()); ok {
		field.Set(converted)
	}
}

func convertValue(value json.RawMessage, typ reflect.Type) (reflect.Value, bool) {
	var decoded any
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return reflect.Value{}, false
	}
	out := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.String:
		n, ok := decoded.(json.Number)
		if !ok {
			return reflect.Value{}, false
		}
		out.SetString(n.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := numericValue(decoded)
		if !ok || f != math.Trunc(f) || out.OverflowInt(int64(f)) {
			return reflect.Value{}, false
		}
		out.SetInt(int64(f))
	case reflect.Float32, reflect.Float64:
		f, ok := numericValue(decoded)
		if !ok {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	case reflect.Bool:
		s, ok := decoded.(string)
		if !ok {
			return reflect.Value{}, false
		}
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetBool(b)
	case reflect.Struct:
		if _, ok := decoded.(map[string]any); !ok {
			return reflect.Value{}, false
		}
		decodeFields(value, out.Addr().Interface())
	case reflect.Pointer:
		if typ.Elem().Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		if _, ok := decoded.(map[string]any); !ok {
			return reflect.Value{}, false
		}
		elem := reflect.New(typ.Elem())
		decodeFields(value, elem.Interface())
		out.Set(elem)
	default:
		return reflect.Value{}, false
	}
	return out, true
}

// numericValue accepts a JSON number or a string holding one, optionally
// suffixed with a percent sign.
func numericValue(decoded any) (float64, bool) {
	switch v := decoded.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "%")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
