package model_test

import (
	"testing"
	"time"

	"Pulseboard/internal/model"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateValueAndScan(t *testing.T) {
	d := model.NewDate(2024, time.August, 15)

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-08-15", v)

	t.Run("string", func(t *testing.T) {
		var got model.Date
		require.NoError(t, got.Scan("2024-08-15"))
		assert.True(t, got.Equal(d))
	})

	t.Run("bytes with time suffix", func(t *testing.T) {
		var got model.Date
		require.NoError(t, got.Scan([]byte("2024-08-15 00:00:00")))
		assert.True(t, got.Equal(d))
	})

	t.Run("time.Time", func(t *testing.T) {
		var got model.Date
		require.NoError(t, got.Scan(time.Date(2024, 8, 15, 13, 45, 0, 0, time.Local)))
		assert.True(t, got.Equal(d))
	})

	t.Run("garbage", func(t *testing.T) {
		var got model.Date
		assert.Error(t, got.Scan("15/08/2024"))
		assert.Error(t, got.Scan(42))
	})
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Date model.Date `json:"date"`
	}

	raw, err := json.Marshal(wrapper{Date: model.NewDate(2024, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-01-05"}`, string(raw))

	var back wrapper
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "2024-01-05", back.Date.String())

	require.Error(t, json.Unmarshal([]byte(`{"date":"yesterday"}`), &back))
}

func TestParseTable(t *testing.T) {
	tbl, ok := model.ParseTable("posts")
	require.True(t, ok)
	assert.Equal(t, "created_date", tbl.DateColumn())
	assert.Equal(t, "post_title", tbl.KeyColumn())

	tbl, ok = model.ParseTable("content_metrics")
	require.True(t, ok)
	assert.Equal(t, "date", tbl.DateColumn())

	_, ok = model.ParseTable("users")
	assert.False(t, ok)
}
