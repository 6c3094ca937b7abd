//go:build unit

package schedule_test

import (
	"strings"
	"testing"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"Confirmed", "CONFIRMED", " confirmed "} {
		s, err := schedule.ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, schedule.StatusConfirmed, s)
	}

	s, err := schedule.ParseStatus("Canceled")
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCancelled, s)

	_, err = schedule.ParseStatus("archived")
	assert.ErrorIs(t, err, schedule.ErrUnknownStatus)

	for _, st := range schedule.AllStatuses {
		parsed, err := schedule.ParseStatus(strings.ToUpper(st.String()))
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}
	assert.False(t, schedule.Status(0).IsValid())
}

func TestCanTransition(t *testing.T) {
	allowed := map[schedule.Status][]schedule.Status{
		schedule.StatusPending:   {schedule.StatusConfirmed, schedule.StatusUrgent, schedule.StatusCompleted, schedule.StatusCancelled},
		schedule.StatusConfirmed: {schedule.StatusUrgent, schedule.StatusCompleted, schedule.StatusCancelled},
		schedule.StatusUrgent:    {schedule.StatusConfirmed, schedule.StatusCompleted, schedule.StatusCancelled},
		schedule.StatusCompleted: {},
		schedule.StatusCancelled: {},
	}

	for _, from := range schedule.AllStatuses {
		for _, to := range schedule.AllStatuses {
			want := from == to
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, schedule.CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	t.Run("terminal states only allow staying put", func(t *testing.T) {
		for _, terminal := range []schedule.Status{schedule.StatusCompleted, schedule.StatusCancelled} {
			assert.True(t, terminal.IsTerminal())
			for _, to := range schedule.AllStatuses {
				assert.Equal(t, to == terminal, schedule.CanTransition(terminal, to))
			}
		}
	})

	t.Run("unknown status never transitions", func(t *testing.T) {
		assert.False(t, schedule.CanTransition(0, schedule.StatusPending))
		assert.False(t, schedule.CanTransition(schedule.StatusPending, 0))
		assert.False(t, schedule.CanTransition(0, 0))
	})
}

func TestInitialStatus(t *testing.T) {
	tests := []struct {
		name      string
		role      user.Role
		requested string
		want      schedule.Status
		errIs     error
	}{
		{name: "client default", role: user.RoleClient, requested: "", want: schedule.StatusPending},
		{name: "client urgent", role: user.RoleClient, requested: "Urgent", want: schedule.StatusUrgent},
		{name: "client confirmed is coerced", role: user.RoleClient, requested: "confirmed", want: schedule.StatusPending},
		{name: "client completed is coerced", role: user.RoleClient, requested: "completed", want: schedule.StatusPending},
		{name: "client garbage is coerced", role: user.RoleClient, requested: "vip", want: schedule.StatusPending},
		{name: "staff default", role: user.RoleStaff, requested: "", want: schedule.StatusPending},
		{name: "staff confirmed", role: user.RoleStaff, requested: "confirmed", want: schedule.StatusConfirmed},
		{name: "admin urgent", role: user.RoleAdmin, requested: "URGENT", want: schedule.StatusUrgent},
		{name: "staff unknown", role: user.RoleStaff, requested: "vip", errIs: schedule.ErrIllegalStatusTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schedule.InitialStatus(tt.role, tt.requested)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyEditPolicy(t *testing.T) {
	tests := []struct {
		name      string
		role      user.Role
		current   schedule.Status
		requested string
		want      schedule.Status
		errIs     error
	}{
		{name: "completed is locked even without status", role: user.RoleAdmin, current: schedule.StatusCompleted, requested: "", errIs: schedule.ErrBookingLocked},
		{name: "completed is locked for same status", role: user.RoleAdmin, current: schedule.StatusCompleted, requested: "completed", errIs: schedule.ErrBookingLocked},
		{name: "empty keeps status", role: user.RoleClient, current: schedule.StatusPending, requested: "", want: schedule.StatusPending},
		{name: "same status is a no-op for clients", role: user.RoleClient, current: schedule.StatusPending, requested: "PENDING", want: schedule.StatusPending},
		{name: "same status on confirmed", role: user.RoleStaff, current: schedule.StatusConfirmed, requested: "confirmed", want: schedule.StatusConfirmed},
		{name: "same status on cancelled", role: user.RoleStaff, current: schedule.StatusCancelled, requested: "cancelled", want: schedule.StatusCancelled},
		{name: "confirmed to completed is locked", role: user.RoleStaff, current: schedule.StatusConfirmed, requested: "completed", errIs: schedule.ErrBookingLocked},
		{name: "confirmed to cancelled is locked", role: user.RoleAdmin, current: schedule.StatusConfirmed, requested: "cancelled", errIs: schedule.ErrBookingLocked},
		{name: "client cannot confirm", role: user.RoleClient, current: schedule.StatusPending, requested: "confirmed", errIs: schedule.ErrIllegalStatusTransition},
		{name: "client cannot cancel", role: user.RoleClient, current: schedule.StatusUrgent, requested: "cancelled", errIs: schedule.ErrIllegalStatusTransition},
		{name: "staff confirms pending", role: user.RoleStaff, current: schedule.StatusPending, requested: "Confirmed", want: schedule.StatusConfirmed},
		{name: "staff escalates to urgent", role: user.RoleStaff, current: schedule.StatusPending, requested: "urgent", want: schedule.StatusUrgent},
		{name: "urgent back to pending is illegal", role: user.RoleAdmin, current: schedule.StatusUrgent, requested: "pending", errIs: schedule.ErrIllegalStatusTransition},
		{name: "cancelled cannot reopen", role: user.RoleAdmin, current: schedule.StatusCancelled, requested: "pending", errIs: schedule.ErrIllegalStatusTransition},
		{name: "unknown status", role: user.RoleStaff, current: schedule.StatusPending, requested: "vip", errIs: schedule.ErrIllegalStatusTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := schedule.ApplyEditPolicy(tt.role, tt.current, tt.requested)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Equal(t, tt.current, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
