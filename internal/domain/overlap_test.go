package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/pkg/types"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd types.TimeString
		bStart, bEnd types.TimeString
		want         bool
	}{
		{
			name:   "partial overlap",
			aStart: "11:30", aEnd: "12:00",
			bStart: "11:20", bEnd: "11:40",
			want: true,
		},
		{
			name:   "touching boundaries before",
			aStart: "11:30", aEnd: "12:00",
			bStart: "11:00", bEnd: "11:30",
			want: false,
		},
		{
			name:   "touching boundaries after",
			aStart: "11:30", aEnd: "12:00",
			bStart: "12:00", bEnd: "12:30",
			want: false,
		},
		{
			name:   "fully contained",
			aStart: "10:00", aEnd: "12:00",
			bStart: "10:30", bEnd: "11:00",
			want: true,
		},
		{
			name:   "identical intervals",
			aStart: "10:00", aEnd: "11:00",
			bStart: "10:00", bEnd: "11:00",
			want: true,
		},
		{
			name:   "disjoint",
			aStart: "09:00", aEnd: "09:30",
			bStart: "14:00", bEnd: "15:00",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd)
			assert.Equal(t, tt.want, got)

			// Предикат симметричный
			assert.Equal(t, tt.want, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestOverlapsAnyActive(t *testing.T) {
	appointments := []*Appointment{
		{StartTime: "10:00", DurationMinutes: 60, Status: StatusConfirmed},
		{StartTime: "12:00", DurationMinutes: 30, Status: StatusPending},
		// Отменённые и завершённые записи время не занимают
		{StartTime: "14:00", DurationMinutes: 60, Status: StatusCancelled},
		{StartTime: "15:00", DurationMinutes: 60, Status: StatusCompleted},
	}

	t.Run("conflict with confirmed", func(t *testing.T) {
		conflicts, err := OverlapsAnyActive("10:30", 60, appointments)
		require.NoError(t, err)
		assert.True(t, conflicts)
	})

	t.Run("conflict with pending", func(t *testing.T) {
		conflicts, err := OverlapsAnyActive("11:45", 30, appointments)
		require.NoError(t, err)
		assert.True(t, conflicts)
	})

	t.Run("cancelled slot is free", func(t *testing.T) {
		conflicts, err := OverlapsAnyActive("14:00", 60, appointments)
		require.NoError(t, err)
		assert.False(t, conflicts)
	})

	t.Run("completed slot is free", func(t *testing.T) {
		conflicts, err := OverlapsAnyActive("15:00", 30, appointments)
		require.NoError(t, err)
		assert.False(t, conflicts)
	})

	t.Run("touching boundary is free", func(t *testing.T) {
		conflicts, err := OverlapsAnyActive("11:00", 60, appointments)
		require.NoError(t, err)
		assert.False(t, conflicts)
	})

	t.Run("interval past midnight", func(t *testing.T) {
		_, err := OverlapsAnyActive("23:45", 30, appointments)
		assert.Error(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		conflicts, err := OverlapsAnyActive("10:00", 60, nil)
		require.NoError(t, err)
		assert.False(t, conflicts)
	})
}
