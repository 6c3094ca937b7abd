//go:build unit

package readstore_test

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"
	"clinic-scheduler/internal/infra/readstore"
	"clinic-scheduler/internal/pkg/pgconv"
	readstoremock "clinic-scheduler/tests/mock/readstore"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func slotRow(id int64, hour, minute int) query.TimeSlot {
	return query.TimeSlot{
		ID:        id,
		StartTime: pgconv.ClockToPgtype(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute),
	}
}

func TestReferenceReadStore_Catalog(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		rows          []query.TimeSlot
		queryErr      error
		expectedLen   int
		expectedError bool
	}{
		{
			name:        "success: rows are ordered by start time",
			rows:        []query.TimeSlot{slotRow(2, 9, 30), slotRow(1, 9, 0), slotRow(3, 10, 0)},
			expectedLen: 3,
		},
		{
			name:          "error: empty catalog",
			rows:          []query.TimeSlot{},
			expectedError: true,
		},
		{
			name:          "error: ids out of chronological order",
			rows:          []query.TimeSlot{slotRow(2, 9, 0), slotRow(1, 9, 30)},
			expectedError: true,
		},
		{
			name:          "error: database error",
			queryErr:      errDBConnectionLost,
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockQueries := readstoremock.NewMockReferenceQueries(ctrl)
			store := readstore.NewReferenceReadStore(mockQueries, &mockDBTX{})

			mockQueries.EXPECT().ListTimeSlots(ctx, gomock.Any()).Return(tc.rows, tc.queryErr)

			catalog, err := store.Catalog(ctx)

			if tc.expectedError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				assert.Nil(t, catalog)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedLen, catalog.Len())
			assert.Equal(t, schedule.SlotID(1), catalog.At(0).ID())
			assert.Equal(t, "09:30", catalog.At(1).Start().String())
		})
	}
}

func TestReferenceReadStore_Services(t *testing.T) {
	ctx := context.Background()

	t.Run("success: service by id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockQueries := readstoremock.NewMockReferenceQueries(ctrl)
		store := readstore.NewReferenceReadStore(mockQueries, &mockDBTX{})

		mockQueries.EXPECT().GetServiceByID(ctx, gomock.Any(), int64(3)).
			Return(query.Service{ID: 3, Name: "Surgery", DurationMinutes: 120}, nil)

		svc, err := store.ServiceByID(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, "Surgery", svc.Name())
		assert.Equal(t, 120, svc.DurationMinutes())
	})

	t.Run("error: service not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockQueries := readstoremock.NewMockReferenceQueries(ctrl)
		store := readstore.NewReferenceReadStore(mockQueries, &mockDBTX{})

		mockQueries.EXPECT().GetServiceByID(ctx, gomock.Any(), int64(99)).Return(query.Service{}, pgx.ErrNoRows)

		svc, err := store.ServiceByID(ctx, 99)

		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		assert.Nil(t, svc)
	})

	t.Run("success: list keeps row order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockQueries := readstoremock.NewMockReferenceQueries(ctrl)
		store := readstore.NewReferenceReadStore(mockQueries, &mockDBTX{})

		mockQueries.EXPECT().ListServices(ctx, gomock.Any()).Return([]query.Service{
			{ID: 1, Name: "Checkup", DurationMinutes: 60},
			{ID: 2, Name: "Vaccination", DurationMinutes: 15},
		}, nil)

		services, err := store.Services(ctx)

		require.NoError(t, err)
		require.Len(t, services, 2)
		assert.Equal(t, schedule.ServiceID(2), services[1].ID())
	})
}
