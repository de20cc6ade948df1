package calendar

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
// 1e11 seconds is the year 5138; 1e11 milliseconds is March 1973.
const epochMillisThreshold = 1e11

// compactLayout is the basic ISO 8601 date. Eight digit strings are read
// with it before any epoch interpretation.
const compactLayout = "20060102"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.UnixDate,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Mon Jan 02 2006",
}

// Normalize converts a date-shaped wire value to "yyyy-mm-dd".
//
// Plain yyyy-mm-dd strings are returned unchanged, ISO datetimes are cut at
// the "T" separator, and any other recognizable timestamp (including epoch
// seconds or milliseconds) becomes its UTC calendar day. Nil and blank values
// normalize to "". Normalizing an already normalized value is a no-op.
func Normalize(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return normalizeString(val)
	case Date:
		return val.String(), nil
	case *Date:
		if val == nil {
			return "", nil
		}
		return val.String(), nil
	case time.Time:
		return Of(val.UTC()).String(), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return "", fmt.Errorf("invalid epoch value %q: %w", val, err)
		}
		return fromEpoch(f), nil
	case float64:
		return fromEpoch(val), nil
	case float32:
		return fromEpoch(float64(val)), nil
	case int:
		return fromEpoch(float64(val)), nil
	case int64:
		return fromEpoch(float64(val)), nil
	default:
		return "", fmt.Errorf("unsupported date value of type %T", v)
	}
}

func normalizeString(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}

	if len(s) == len(Layout) {
		if _, err := Parse(s); err == nil {
			return s, nil
		}
	}

	if i := strings.IndexByte(s, 'T'); i > 0 {
		if _, err := Parse(s[:i]); err == nil {
			return s[:i], nil
		}
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Of(t.UTC()).String(), nil
		}
	}

	if len(s) == len(compactLayout) {
		if t, err := time.Parse(compactLayout, s); err == nil {
			return Of(t).String(), nil
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f), nil
	}

	return "", fmt.Errorf("unrecognized date %q", raw)
}

func fromEpoch(f float64) string {
	var t time.Time
	if math.Abs(f) >= epochMillisThreshold {
		t = time.UnixMilli(int64(f))
	} else {
		t = time.Unix(int64(f), 0)
	}
	return Of(t.UTC()).String()
}
