package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_DecodeLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`"2025-01-02T10:00:00Z"`, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
		{`"2025-01-02T10:00:00.123456+02:00"`, time.Date(2025, 1, 2, 8, 0, 0, 123456000, time.UTC)},
		{`"2025-01-02T10:00:00.123456"`, time.Date(2025, 1, 2, 10, 0, 0, 123456000, time.UTC)},
		{`"2025-01-02 10:00:00"`, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)},
		{`null`, time.Time{}},
		{`"yesterday"`, time.Time{}},
		{`1735812000`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestamp_TaskWithNaiveCreatedAt(t *testing.T) {
	var task Task
	body := `{"id":1,"description":"x","category":2,"category_name":"Work","is_completed":false,"created_at":"2025-01-02T10:00:00.123456"}`
	require.NoError(t, json.Unmarshal([]byte(body), &task))
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, 2025, task.CreatedAt.Year())
}

func TestTimestamp_Encode(t *testing.T) {
	data, err := json.Marshal(NewTimestamp(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02T10:00:00Z"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}
