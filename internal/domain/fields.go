package domain

import (
	"strconv"
	"strings"
	"time"

	"equipos-backend/internal/utils"
)

// Fields is an untyped document body keyed by store field name. It is used
// for update patches and for records that pass through migrations untouched.
type Fields map[string]any

// Record is a document id together with its fields.
type Record struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// Has reports whether key is present, even with a nil value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Clone returns a shallow copy.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// String returns the value of key as a string. Numbers are formatted.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return utils.ToCanonicalID(v)
	}
}

// ID returns a foreign-key value in canonical form. Strings are returned as
// stored; legacy numeric values are converted.
func (f Fields) ID(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return utils.ToCanonicalID(v)
	}
}

// Float returns the numeric value of key, parsing strings when needed.
func (f Fields) Float(key string) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", ""), 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Int returns the integer value of key.
func (f Fields) Int(key string) int {
	return int(f.Float(key))
}

// Bool returns the boolean value of key. Legacy 0/1 values are accepted.
func (f Fields) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "si", "sí", "yes":
			return true
		}
		return false
	case nil:
		return false
	}
	return f.Float(key) != 0
}

// BoolPtr returns the boolean value of key, or nil when absent.
func (f Fields) BoolPtr(key string) *bool {
	if v, ok := f[key]; !ok || v == nil {
		return nil
	}
	b := f.Bool(key)
	return &b
}

// Time returns the timestamp stored at key.
func (f Fields) Time(key string) time.Time {
	switch v := f[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CanonicalizeForeignKeys returns a copy of f with every present foreign-key
// field converted to its canonical string.
func CanonicalizeForeignKeys(f Fields) Fields {
	out := f.Clone()
	for _, key := range ForeignKeyFields {
		v, ok := out[key]
		if !ok || v == nil {
			continue
		}
		out[key] = utils.ToCanonicalID(v)
	}
	return out
}

// extras returns the fields of f not named in known.
func extras(f Fields, known ...string) Fields {
	skip := make(map[string]bool, len(known)+4)
	for _, k := range known {
		skip[k] = true
	}
	skip[FieldCreatedAt] = true
	skip[FieldUpdatedAt] = true
	skip[FieldYear] = true
	skip[FieldMonth] = true

	var out Fields
	for k, v := range f {
		if skip[k] {
			continue
		}
		if out == nil {
			out = Fields{}
		}
		out[k] = v
	}
	return out
}

// putString sets key only when value is not empty.
func putString(f Fields, key, value string) {
	if value != "" {
		f[key] = value
	}
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
