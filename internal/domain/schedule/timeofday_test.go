//go:build unit

package schedule_test

import (
	"testing"
	"time"

	"clinic-scheduler/internal/domain/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfDay(t *testing.T) {
	t.Run("parse and format", func(t *testing.T) {
		for _, in := range []string{"09:00", "09:00:00"} {
			tod, err := schedule.ParseTimeOfDay(in)
			require.NoError(t, err)
			assert.Equal(t, "09:00", tod.String())
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, in := range []string{"", "25:00", "9am", "12:60"} {
			_, err := schedule.ParseTimeOfDay(in)
			assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay, in)
		}
		_, err := schedule.NewTimeOfDay(24, 0)
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
		_, err = schedule.TimeOfDayFromOffset(24 * time.Hour)
		assert.ErrorIs(t, err, schedule.ErrInvalidTimeOfDay)
	})

	t.Run("wall clock keeps seconds", func(t *testing.T) {
		slot := schedule.MustTimeOfDay(14, 0)
		now := schedule.TimeOfDayOf(time.Date(2025, 3, 10, 14, 0, 30, 0, time.UTC))

		assert.True(t, now.After(slot))
		assert.Equal(t, "14:00", now.String())
	})

	t.Run("ordering", func(t *testing.T) {
		a := schedule.MustTimeOfDay(9, 0)
		b := a.Add(30 * time.Minute)

		assert.Equal(t, "09:30", b.String())
		assert.Equal(t, -1, a.Compare(b))
		assert.Equal(t, 1, b.Compare(a))
		assert.Equal(t, 0, a.Compare(schedule.MustTimeOfDay(9, 0)))
		assert.True(t, a.Before(b))
		assert.True(t, a.Equal(schedule.MustTimeOfDay(9, 0)))
	})
}

func TestDate(t *testing.T) {
	d, err := schedule.ParseDate("2025-03-10")
	require.NoError(t, err)

	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2025-03-15", d.AddDays(5).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.Equal(schedule.NewDate(2025, time.March, 10)))
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), d.At(schedule.MustTimeOfDay(9, 30)))

	_, err = schedule.ParseDate("10/03/2025")
	assert.ErrorIs(t, err, schedule.ErrInvalidDate)

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "2025-03-11", schedule.DateOf(time.Date(2025, 3, 11, 1, 0, 0, 0, tokyo)).String())
}
