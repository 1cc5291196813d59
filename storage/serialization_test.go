package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/poiesic/psenrich/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSerializationFailed))
}

func TestMarshalUnmarshalEnrichedRecord(t *testing.T) {
	record := &core.EnrichedRecord{
		Id:         3,
		ExternalID: "SIH1524",
		Title:      "Crop disease detection",
		Tags:       []string{"ml", "agriculture"},
		TechStack:  []string{"Python", "TensorFlow"},
		Summary:    "Detect leaf diseases from photos.",
		Approach:   []string{"collect images", "train classifier"},
		Difficulty: core.DifficultyMedium,
		InsertedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data := MarshalEnrichedRecord(record)
	decoded, err := UnmarshalEnrichedRecord(data)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestUnmarshalEnrichedRecord_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"single byte", []byte{0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEnrichedRecord(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalRunRecord(t *testing.T) {
	run := &core.RunRecord{
		RunID:      "6f1c",
		Mode:       core.RunModeSingle,
		StartedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		FinishedAt: time.Date(2025, 1, 2, 3, 4, 9, 0, time.UTC),
		Total:      1,
		Created:    1,
	}

	decoded, err := UnmarshalRunRecord(MarshalRunRecord(run))
	require.NoError(t, err)
	assert.Equal(t, run, decoded)
}
