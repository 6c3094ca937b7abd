//go:build unit

package schedule_test

import (
	"testing"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCatalog(t *testing.T) {
	c := builder.StandardCatalog()

	require.Equal(t, 16, c.Len())
	slots := c.OrderedSlots()
	assert.Equal(t, schedule.SlotID(1), slots[0].ID())
	assert.Equal(t, "09:00", slots[0].Start().String())
	assert.Equal(t, schedule.SlotID(16), slots[15].ID())
	assert.Equal(t, "16:30", slots[15].Start().String())

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].Start().Before(slots[i].Start()))
	}

	t.Run("partial trailing block is dropped", func(t *testing.T) {
		c, err := schedule.GenerateCatalog(schedule.MustTimeOfDay(9, 0), schedule.MustTimeOfDay(10, 45), 30)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Len())
	})

	t.Run("invalid window", func(t *testing.T) {
		_, err := schedule.GenerateCatalog(schedule.MustTimeOfDay(17, 0), schedule.MustTimeOfDay(9, 0), 30)
		assert.ErrorIs(t, err, schedule.ErrInvalidDayWindow)

		_, err = schedule.GenerateCatalog(schedule.MustTimeOfDay(9, 0), schedule.MustTimeOfDay(17, 0), 0)
		assert.ErrorIs(t, err, schedule.ErrInvalidBlockLength)
	})
}

func TestNewCatalog(t *testing.T) {
	nine := schedule.MustTimeOfDay(9, 0)
	nineThirty := schedule.MustTimeOfDay(9, 30)
	ten := schedule.MustTimeOfDay(10, 0)

	t.Run("sorts by start time", func(t *testing.T) {
		c, err := schedule.NewCatalog([]schedule.TimeSlot{
			schedule.NewTimeSlot(3, ten),
			schedule.NewTimeSlot(1, nine),
			schedule.NewTimeSlot(2, nineThirty),
		})
		require.NoError(t, err)

		pos, ok := c.IndexOf(3)
		require.True(t, ok)
		assert.Equal(t, 2, pos)
		assert.Equal(t, schedule.SlotID(1), c.At(0).ID())
	})

	tests := []struct {
		name  string
		slots []schedule.TimeSlot
		errIs error
	}{
		{name: "empty", slots: nil, errIs: schedule.ErrEmptyCatalog},
		{
			name:  "duplicate id",
			slots: []schedule.TimeSlot{schedule.NewTimeSlot(1, nine), schedule.NewTimeSlot(1, ten)},
			errIs: schedule.ErrDuplicateSlot,
		},
		{
			name:  "duplicate start",
			slots: []schedule.TimeSlot{schedule.NewTimeSlot(1, nine), schedule.NewTimeSlot(2, nine)},
			errIs: schedule.ErrDuplicateSlot,
		},
		{
			name:  "id order disagrees with time order",
			slots: []schedule.TimeSlot{schedule.NewTimeSlot(2, nine), schedule.NewTimeSlot(1, ten)},
			errIs: schedule.ErrCatalogOrder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := schedule.NewCatalog(tt.slots)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, tt.errIs)
		})
	}
}

func TestCatalog_Run(t *testing.T) {
	c := builder.StandardCatalog()

	run, ok := c.Run(14, 2)
	require.True(t, ok)
	assert.Equal(t, "16:00", run[0].Start().String())
	assert.Equal(t, "16:30", run[1].Start().String())

	_, ok = c.Run(15, 2)
	assert.False(t, ok, "run past the last slot")
	_, ok = c.Run(-1, 1)
	assert.False(t, ok)
	_, ok = c.Run(0, 0)
	assert.False(t, ok)

	ids, ok := c.RunIDs(builder.SlotAt(10, 0), 3)
	require.True(t, ok)
	assert.Equal(t, []schedule.SlotID{3, 4, 5}, ids)

	_, ok = c.RunIDs(99, 1)
	assert.False(t, ok)

	_, ok = c.IndexOf(99)
	assert.False(t, ok)
}
