package skema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind enumerates the primitive attribute types.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindNumeric
	KindBoolean
	KindDate
	KindDateTime
	KindTimestamp
	KindAny
)

var kindNames = [...]string{
	KindString:    "String",
	KindInteger:   "Integer",
	KindFloat:     "Float",
	KindNumeric:   "Numeric",
	KindBoolean:   "Boolean",
	KindDate:      "Date",
	KindDateTime:  "DateTime",
	KindTimestamp: "Timestamp",
	KindAny:       "Any",
}

// TypeName returns the kind's display name ("String", "Integer", ...).
func (k Kind) TypeName() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

func (k Kind) String() string { return k.TypeName() }

// ParseKind resolves a kind from its display name or a common alias
// ("int", "bool", "time", ...). Matching is case-insensitive.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return KindString, true
	case "integer", "int":
		return KindInteger, true
	case "float", "double":
		return KindFloat, true
	case "numeric", "number":
		return KindNumeric, true
	case "boolean", "bool":
		return KindBoolean, true
	case "date":
		return KindDate, true
	case "datetime", "date_time":
		return KindDateTime, true
	case "timestamp", "time":
		return KindTimestamp, true
	case "any":
		return KindAny, true
	}
	return 0, false
}

// Accepts reports whether v is a canonical value of the kind.
func (k Kind) Accepts(v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInteger:
		return isInteger(v)
	case KindFloat:
		switch v.(type) {
		case float64, float32:
			return true
		}
		return false
	case KindNumeric:
		if isInteger(v) {
			return true
		}
		switch v.(type) {
		case float64, float32:
			return true
		}
		return false
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	case KindDate:
		switch v.(type) {
		case Date, time.Time:
			return true
		}
		return false
	case KindDateTime, KindTimestamp:
		_, ok := v.(time.Time)
		return ok
	case KindAny:
		return true
	}
	return false
}

// Coerce converts v into the kind's canonical representation. Coercion is
// best-effort: when v cannot be converted it is returned unchanged and
// validation reports the mismatch later.
func (k Kind) Coerce(v any) any {
	switch k {
	case KindInteger:
		if n, ok := toInt64(v); ok {
			return n
		}
	case KindFloat:
		if f, ok := toFloat64(v); ok {
			return f
		}
	case KindNumeric:
		switch t := v.(type) {
		case json.Number:
			if n, err := t.Int64(); err == nil {
				return n
			}
			if f, err := t.Float64(); err == nil {
				return f
			}
		case float32:
			return float64(t)
		default:
			if isInteger(v) {
				n, _ := toInt64(v)
				return n
			}
		}
	case KindBoolean:
		return parseBool(v)
	case KindDate:
		if s, ok := v.(string); ok {
			if d, err := ParseDate(s); err == nil {
				return d
			}
		}
	case KindDateTime, KindTimestamp:
		if s, ok := v.(string); ok {
			if t, err := parseTime(s, dateTimeLayouts); err == nil {
				return t
			}
		}
	}
	return v
}

func parseBool(v any) any {
	switch t := v.(type) {
	case string:
		switch t {
		case "true", "t":
			return true
		case "false", "f":
			return false
		}
		return v
	case bool:
		return t
	}
	if n, ok := numericValue(v); ok {
		switch n {
		case 1:
			return true
		case 0:
			return false
		}
	}
	return v
}

func isInteger(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// toInt64 converts integer-like values; floats convert only when integral.
func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint:
		return int64(t), uint64(t) <= math.MaxInt64
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), uint64(t) <= math.MaxInt64
	case float64:
		return integralFloat(t)
	case float32:
		return integralFloat(float64(t))
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return integralFloat(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func integralFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	if isInteger(v) {
		n, ok := toInt64(v)
		return float64(n), ok
	}
	return 0, false
}

// numericValue reports the float value of any Go number or json.Number.
func numericValue(v any) (float64, bool) {
	switch v.(type) {
	case string:
		return 0, false
	}
	return toFloat64(v)
}
