package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataValue(t *testing.T) {
	t.Run("Marshals to JSON bytes", func(t *testing.T) {
		m := Metadata{"meeting_date": "2025-03-03", "committee": "Finance"}

		value, err := m.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `{"meeting_date":"2025-03-03","committee":"Finance"}`, string(value.([]byte)))
	})

	t.Run("Nil metadata marshals to null", func(t *testing.T) {
		var m Metadata
		value, err := m.Value()
		require.NoError(t, err)
		assert.Equal(t, "null", string(value.([]byte)))
	})
}

func TestMetadataScan(t *testing.T) {
	t.Run("Scans JSON bytes", func(t *testing.T) {
		var m Metadata
		err := m.Scan([]byte(`{"vote":"yes","role":"Chair"}`))
		require.NoError(t, err)
		assert.Equal(t, Metadata{"vote": "yes", "role": "Chair"}, m)
	})

	t.Run("Scans nil to empty metadata", func(t *testing.T) {
		var m Metadata
		err := m.Scan(nil)
		require.NoError(t, err)
		assert.Equal(t, Metadata{}, m)
	})

	t.Run("Scans Metadata value directly", func(t *testing.T) {
		var m Metadata
		err := m.Scan(Metadata{"key": "value"})
		require.NoError(t, err)
		assert.Equal(t, Metadata{"key": "value"}, m)
	})

	t.Run("Rejects non-byte values", func(t *testing.T) {
		var m Metadata
		err := m.Scan(42)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "type assertion to []byte failed")
	})
}
