package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_AddMonths(t *testing.T) {
	testCases := []struct {
		name     string
		from     string
		months   int
		expected string
	}{
		{name: "Keeps day of month", from: "2024-03-15", months: 1, expected: "2024-04-15"},
		{name: "Clamps to leap February", from: "2024-01-31", months: 1, expected: "2024-02-29"},
		{name: "Clamps to short February", from: "2023-01-31", months: 1, expected: "2023-02-28"},
		{name: "Clamps to 30-day month", from: "2024-03-31", months: 1, expected: "2024-04-30"},
		{name: "Crosses year boundary", from: "2024-12-31", months: 1, expected: "2025-01-31"},
		{name: "Negative months", from: "2024-03-31", months: -1, expected: "2024-02-29"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MustParse(tc.from).AddMonths(tc.months)
			assert.Equal(t, tc.expected, got.String())
		})
	}
}

func TestDate_AddYears(t *testing.T) {
	assert.Equal(t, "2025-02-28", MustParse("2024-02-29").AddYears(1).String())
	assert.Equal(t, "2028-02-29", MustParse("2024-02-29").AddYears(4).String())
	assert.Equal(t, "2025-06-01", MustParse("2024-06-01").AddYears(1).String())
}

func TestDate_AddDaysAndDaysSince(t *testing.T) {
	start := MustParse("2024-01-01")

	assert.Equal(t, "2024-03-31", start.AddDays(90).String())
	assert.Equal(t, 90, start.AddDays(90).DaysSince(start))
	assert.Equal(t, -3, start.AddDays(-3).DaysSince(start))
	assert.Equal(t, 0, start.DaysSince(start))
}

func TestDate_Comparisons(t *testing.T) {
	a := MustParse("2024-05-01")
	b := MustParse("2024-05-02")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(MustParse("2024-05-01")))
	assert.False(t, a.IsZero())
	assert.True(t, Date{}.IsZero())
}

func TestOf_UsesLocationOfTime(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	instant := time.Date(2024, 6, 30, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-06-30", Of(instant).String())
	assert.Equal(t, "2024-07-01", Of(instant.In(loc)).String())
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		When *Date `json:"when,omitempty"`
	}

	out, err := json.Marshal(wrapper{When: MustParse("2024-02-29").Ptr()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"when":"2024-02-29"}`, string(out))

	var in wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"when":"2024-02-29T10:00:00Z"}`), &in))
	require.NotNil(t, in.When)
	assert.Equal(t, "2024-02-29", in.When.String())
}

func TestDate_ValueAndScan(t *testing.T) {
	d := MustParse("2024-07-04")

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-04", v)

	testCases := []struct {
		name string
		src  any
	}{
		{name: "postgres time", src: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)},
		{name: "sqlite text", src: "2024-07-04"},
		{name: "bytes", src: []byte("2024-07-04")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Date
			require.NoError(t, got.Scan(tc.src))
			assert.True(t, d.Equal(got))
		})
	}

	var zero Date
	require.NoError(t, zero.Scan(nil))
	assert.True(t, zero.IsZero())
	assert.Error(t, zero.Scan(42))
}

func TestParse_RejectsInvalid(t *testing.T) {
	_, err := Parse("2023-02-29")
	assert.Error(t, err)
	_, err = Parse("31/01/2024")
	assert.Error(t, err)
}
