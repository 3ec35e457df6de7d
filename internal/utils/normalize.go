package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"equipos-backend/internal/logger"
)

// Field keys shared by every dated record.
const (
	DateField  = "fecha"
	YearField  = "ano"
	MonthField = "mes"
)

// ToCanonicalID coerces a legacy identifier into the decimal string form used
// for document keys and foreign-key equality filters. Ints, integral floats and
// numeric strings collapse to the same value ("42", 42 and 42.0 all yield "42").
// Non-numeric values are returned unchanged; the function never fails.
func ToCanonicalID(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return v
		}
		if id, ok := integralString(s); ok {
			return id
		}
		logger.Warn("Non-numeric id left unchanged", "value", v)
		return v
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return floatID(float64(v))
	case float64:
		return floatID(v)
	default:
		s := fmt.Sprint(v)
		logger.Warn("Non-numeric id left unchanged", "value", s, "type", fmt.Sprintf("%T", v))
		return s
	}
}

// IsCanonicalID reports whether value is already stored in canonical form.
// Only strings qualify; numeric types always need rewriting.
func IsCanonicalID(value any) bool {
	_, ok := value.(string)
	return ok
}

func integralString(s string) (string, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isIntegral(f) {
		return "", false
	}
	return strconv.FormatInt(int64(f), 10), true
}

func floatID(f float64) string {
	if isIntegral(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	logger.Warn("Non-integral numeric id left unchanged", "value", s)
	return s
}

func isIntegral(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f == math.Trunc(f) && math.Abs(f) < math.MaxInt64
}

// PeriodOf extracts year and month from a yyyy-mm-dd date.
func PeriodOf(date string) (int, int, bool) {
	d, err := ParseDate(strings.TrimSpace(date))
	if err != nil {
		return 0, 0, false
	}
	return d.Year, d.Month, true
}

// StampPeriod returns a copy of fields with ano/mes derived from fecha.
// When fecha is missing or unparseable the copy carries no period fields
// beyond those already present.
func StampPeriod(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		out[k] = v
	}
	raw, ok := fields[DateField].(string)
	if !ok {
		return out
	}
	if year, month, ok := PeriodOf(raw); ok {
		out[YearField] = year
		out[MonthField] = month
	}
	return out
}
