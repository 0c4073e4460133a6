package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

func TestGenerateCandidates(t *testing.T) {
	t.Run("service fits exactly until close", func(t *testing.T) {
		window := domain.DayWindow{OpenTime: "09:00", CloseTime: "11:00"}

		candidates, err := generateCandidates(window, 60, 30)
		require.NoError(t, err)

		// 10:30 не входит: 10:30 + 60 мин > 11:00, а 10:00 + 60 мин = 11:00 входит
		assert.Equal(t, []types.TimeString{"09:00", "09:30", "10:00"}, candidates)
	})

	t.Run("duration longer than window", func(t *testing.T) {
		window := domain.DayWindow{OpenTime: "09:00", CloseTime: "10:00"}

		candidates, err := generateCandidates(window, 90, 30)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("closed day", func(t *testing.T) {
		candidates, err := generateCandidates(domain.DayWindow{IsClosed: true}, 30, 30)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("default window slot count", func(t *testing.T) {
		candidates, err := generateCandidates(domain.DefaultDayWindow(), 30, 30)
		require.NoError(t, err)

		// 09:00..18:30 с шагом 30 минут
		assert.Len(t, candidates, 20)
		assert.Equal(t, types.TimeString("09:00"), candidates[0])
		assert.Equal(t, types.TimeString("18:30"), candidates[len(candidates)-1])
	})
}

func TestFilterConflicting(t *testing.T) {
	candidates := []types.TimeString{"10:00", "10:30", "11:00", "11:30", "12:00"}
	appointments := []*domain.Appointment{
		{StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}

	free, err := filterConflicting(candidates, 30, appointments)
	require.NoError(t, err)

	// Заняты 10:30 и 11:00; 10:00 и 11:30 граничат и остаются свободными
	assert.Equal(t, []types.TimeString{"10:00", "11:30", "12:00"}, free)
}

func TestFilterConflicting_InactiveIgnored(t *testing.T) {
	candidates := []types.TimeString{"10:00"}
	appointments := []*domain.Appointment{
		{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}

	free, err := filterConflicting(candidates, 60, appointments)
	require.NoError(t, err)
	assert.Equal(t, candidates, free)
}

func TestFilterLeadTime(t *testing.T) {
	candidates := []types.TimeString{"09:00", "10:00", "11:00", "12:00"}
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	t.Run("today drops slots within lead time", func(t *testing.T) {
		now := time.Date(2026, 9, 15, 10, 45, 0, 0, time.UTC)

		// now + 30 мин = 11:15, поэтому остаётся только 12:00
		filtered := filterLeadTime(candidates, date, now, 30)
		assert.Equal(t, []types.TimeString{"12:00"}, filtered)
	})

	t.Run("boundary slot is kept", func(t *testing.T) {
		now := time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC)

		// now + 30 мин = 11:00, слот 11:00 проходит
		filtered := filterLeadTime(candidates, date, now, 30)
		assert.Equal(t, []types.TimeString{"11:00", "12:00"}, filtered)
	})

	t.Run("future date keeps everything", func(t *testing.T) {
		now := time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC)

		filtered := filterLeadTime(candidates, date, now, 30)
		assert.Equal(t, candidates, filtered)
	})

	t.Run("past date drops everything", func(t *testing.T) {
		now := time.Date(2026, 9, 16, 8, 0, 0, 0, time.UTC)

		filtered := filterLeadTime(candidates, date, now, 30)
		assert.Empty(t, filtered)
	})
}
