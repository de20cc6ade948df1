package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"appliance-alerts-backend/internal/calendar"
)

// Payload is the key/value form of an entity on the wire.
type Payload map[string]any

// Compact drops every key whose value is nil or the empty string.
func (p Payload) Compact() Payload {
	for k, v := range p {
		switch val := v.(type) {
		case nil:
			delete(p, k)
		case string:
			if val == "" {
				delete(p, k)
			}
		}
	}
	return p
}

// Merge returns a copy of p with patch applied on top. A nil value in patch
// removes the key.
func (p Payload) Merge(patch Payload) Payload {
	out := make(Payload, len(p)+len(patch))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// String returns the string value at key. Non-string scalars are formatted.
func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the integer value at key, or nil when absent or blank.
func (p Payload) Int(key string) (*int, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}

	var n int
	switch val := v.(type) {
	case int:
		n = val
	case int32:
		n = int(val)
	case int64:
		n = int(val)
	case float64:
		if val != math.Trunc(val) {
			return nil, fmt.Errorf("%s: %v is not a whole number", key, val)
		}
		n = int(val)
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		n = int(i)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", key, val)
		}
		n = i
	default:
		return nil, fmt.Errorf("%s: unsupported value of type %T", key, v)
	}
	return &n, nil
}

// ID returns the identifier at "id", or 0 when absent.
func (p Payload) ID() (int64, error) {
	n, err := p.Int("id")
	if err != nil || n == nil {
		return 0, err
	}
	return int64(*n), nil
}

// Date normalizes the date-shaped value at key, or returns nil when absent.
func (p Payload) Date(key string) (*calendar.Date, error) {
	s, err := calendar.Normalize(p[key])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if s == "" {
		return nil, nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &d, nil
}

// Decode unmarshals a JSON object into a Payload, keeping numbers exact.
func Decode(b []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeList unmarshals a JSON array of objects.
func DecodeList(b []byte) ([]Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var ps []Payload
	if err := dec.Decode(&ps); err != nil {
		return nil, err
	}
	return ps, nil
}
