package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when a string has to be read as a date.
// Ambiguous numeric dates are read month-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006/01/02",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// IsMissing reports whether a cell holds no value: nil, the empty string or NaN.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []byte:
		return len(x) == 0
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	case time.Time:
		return x.IsZero()
	default:
		return false
	}
}

// Text returns the canonical textual form of a cell, used for set membership
// and key comparisons. The second result is false for missing cells.
//
// Integral floats print without a fraction ("15" not "15.0") and dates at
// midnight print as "2006-01-02", so a sheet typed by one source compares equal
// to the same sheet typed by another.
func Text(v any) (string, bool) {
	if IsMissing(v) {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int:
		return strconv.Itoa(x), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case float64:
		return formatFloat(x), true
	case float32:
		return formatFloat(float64(x)), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02"), true
		}
		return x.Format("2006-01-02 15:04:05"), true
	default:
		return fmt.Sprint(x), true
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Number reads a cell as a float. Strings are trimmed before parsing.
// Missing and unparseable cells, and NaN, return false.
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case []byte:
		return Number(string(x))
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Date reads a cell as a calendar date. time.Time values are taken as-is;
// strings are tried against the known layouts. Missing and unparseable cells
// return false.
func Date(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x, true
	case string:
		return ParseDate(x)
	case []byte:
		return ParseDate(string(x))
	default:
		return time.Time{}, false
	}
}

// ParseDate parses a string date using the known layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsOne reports whether a cell holds the flag value 1. Numeric cells compare
// numerically; string cells must read exactly "1" after trimming.
func IsOne(v any) bool {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) == "1"
	case []byte:
		return strings.TrimSpace(string(x)) == "1"
	case bool:
		return false
	}
	n, ok := Number(v)
	return ok && n == 1
}

// Is reports whether a cell's text equals s. Missing cells never match.
func Is(v any, s string) bool {
	t, ok := Text(v)
	return ok && t == s
}

// In reports whether a cell's text is one of the given values.
func In(v any, values ...string) bool {
	t, ok := Text(v)
	if !ok {
		return false
	}
	for _, s := range values {
		if t == s {
			return true
		}
	}
	return false
}

// Truncate drops the time of day, keeping the calendar date in UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
