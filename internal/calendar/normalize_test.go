package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name      string
		input     any
		expected  string
		expectErr bool
	}{
		{name: "Plain date passes through", input: "2024-03-10", expected: "2024-03-10"},
		{name: "ISO datetime is cut at T", input: "2024-03-10T23:30:00-05:00", expected: "2024-03-10"},
		{name: "ISO datetime UTC", input: "2024-03-10T00:00:00.000Z", expected: "2024-03-10"},
		{name: "Space separated timestamp", input: "2024-03-10 08:15:00", expected: "2024-03-10"},
		{name: "RFC1123 converts to UTC", input: "Sun, 10 Mar 2024 23:30:00 -0500", expected: "2024-03-11"},
		{name: "Epoch milliseconds", input: float64(1710028800000), expected: "2024-03-10"},
		{name: "Epoch seconds", input: int64(1710028800), expected: "2024-03-10"},
		{name: "Epoch as json.Number", input: json.Number("1710028800000"), expected: "2024-03-10"},
		{name: "Epoch as numeric string", input: "1710028800000", expected: "2024-03-10"},
		{name: "Compact date is not epoch", input: "20240610", expected: "2024-06-10"},
		{name: "Eight digits that are no date fall back to epoch", input: "20241310", expected: "1970-08-23"},
		{name: "time.Time converts to UTC", input: time.Date(2024, 3, 10, 23, 0, 0, 0, time.FixedZone("X", -5*3600)), expected: "2024-03-11"},
		{name: "Nil is empty", input: nil, expected: ""},
		{name: "Blank is empty", input: "   ", expected: ""},
		{name: "Garbage fails", input: "next tuesday", expectErr: true},
		{name: "Unsupported type fails", input: true, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []any{
		"2024-03-10",
		"2024-03-10T23:30:00-05:00",
		"Sun, 10 Mar 2024 23:30:00 -0500",
		float64(1710028800000),
	}

	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "input %v", in)
	}
}
