package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.February, 29), d)
	assert.Equal(t, "2024-02-29", d.String())

	for _, bad := range []string{"", "2023-02-29", "29/02/2024", "2024-2-9"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDate_Scan(t *testing.T) {
	cases := []struct {
		name string
		src  any
		want Date
	}{
		{"nil", nil, Date{}},
		{"time with clock", time.Date(2024, 3, 5, 17, 30, 0, 0, time.FixedZone("x", 3600)), NewDate(2024, 3, 5)},
		{"string", "2024-03-05", NewDate(2024, 3, 5)},
		{"bytes", []byte("2024-03-05"), NewDate(2024, 3, 5)},
		{"datetime string", "2024-03-05 00:00:00", NewDate(2024, 3, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tc.src))
			assert.Equal(t, tc.want, d)
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := NewDate(2024, 12, 31).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", v)
}

func TestDate_JSON(t *testing.T) {
	var e struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-15"}`), &e))
	assert.Equal(t, NewDate(2024, 1, 15), e.Date)

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-15"}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"15.01.2024"}`), &e))
}
