package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload_Compact(t *testing.T) {
	p := Payload{"name": "Fridge", "notes": "", "brand": nil, "warrantyMonths": 0}.Compact()

	assert.Equal(t, Payload{"name": "Fridge", "warrantyMonths": 0}, p)
}

func TestPayload_Merge(t *testing.T) {
	base := Payload{"name": "Fridge", "alertDate": "2024-01-01", "notes": "old"}
	merged := base.Merge(Payload{"notes": "new", "alertDate": nil})

	assert.Equal(t, Payload{"name": "Fridge", "notes": "new"}, merged)
	assert.Equal(t, "old", base["notes"], "base must not be modified")
}

func TestPayload_Int(t *testing.T) {
	testCases := []struct {
		name      string
		value     any
		expected  *int
		expectErr bool
	}{
		{name: "int", value: 12, expected: intPtr(12)},
		{name: "float64 whole", value: float64(24), expected: intPtr(24)},
		{name: "json.Number", value: json.Number("36"), expected: intPtr(36)},
		{name: "numeric string", value: " 6 ", expected: intPtr(6)},
		{name: "blank string", value: "", expected: nil},
		{name: "nil", value: nil, expected: nil},
		{name: "fraction", value: 1.5, expectErr: true},
		{name: "word", value: "twelve", expectErr: true},
		{name: "bool", value: true, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Payload{"n": tc.value}.Int("n")
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}

	got, err := Payload{}.Int("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPayload_Date(t *testing.T) {
	d, err := Payload{"alertDate": "2024-05-01T08:00:00Z"}.Date("alertDate")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2024-05-01", d.String())

	d, err = Payload{}.Date("alertDate")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = Payload{"alertDate": "soon"}.Date("alertDate")
	assert.Error(t, err)
}

func TestDecode_KeepsNumbersExact(t *testing.T) {
	p, err := Decode([]byte(`{"id": 9007199254740993, "name": "Dryer"}`))
	require.NoError(t, err)

	id, err := p.ID()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), id)
	assert.Equal(t, "Dryer", p.String("name"))

	list, err := DecodeList([]byte(`[{"id": 1}, {"id": 2}]`))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func intPtr(n int) *int { return &n }
