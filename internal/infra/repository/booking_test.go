//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/infra"
	"clinic-scheduler/internal/infra/query"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingWriteQueries struct {
	mock.Mock
}

func (m *MockBookingWriteQueries) CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingWriteQueries) UpdateBooking(ctx context.Context, db query.DBTX, arg query.UpdateBookingParams) (int64, error) {
	args := m.Called(ctx, db, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingWriteQueries) DeleteBooking(ctx context.Context, db query.DBTX, id int64) (int64, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingWriteQueries) InsertBookingBlocks(ctx context.Context, db query.DBTX, arg query.InsertBookingBlocksParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func (m *MockBookingWriteQueries) DeleteBookingBlocks(ctx context.Context, db query.DBTX, bookingID int64) error {
	args := m.Called(ctx, db, bookingID)
	return args.Error(0)
}

func (m *MockBookingWriteQueries) ReleaseCancelledBlocks(ctx context.Context, db query.DBTX, arg query.ReleaseCancelledBlocksParams) error {
	args := m.Called(ctx, db, arg)
	return args.Error(0)
}

func testBooking(id schedule.BookingID, status schedule.Status) *schedule.Booking {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return schedule.ReconstructBooking(
		id, 10, 20, 1, "Checkup", 2,
		schedule.NewDate(2025, 3, 11), 3, status,
		created, created,
	)
}

func TestBookingRepository_Create(t *testing.T) {
	tests := []struct {
		name       string
		held       []schedule.SlotID
		createErr  error
		blocksErr  error
		wantID     schedule.BookingID
		wantKind   infra.RepositoryErrorKind
		wantBlocks bool
	}{
		{
			name:       "success claims held blocks",
			held:       []schedule.SlotID{3, 4},
			wantID:     42,
			wantBlocks: true,
		},
		{
			name:   "nothing held skips block insert",
			held:   nil,
			wantID: 42,
		},
		{
			name:      "insert failure",
			createErr: assert.AnError,
			wantKind:  infra.KindDBFailure,
		},
		{
			name:       "block already taken maps to conflict",
			held:       []schedule.SlotID{3, 4},
			blocksErr:  &pgconn.PgError{Code: "23505"},
			wantKind:   infra.KindConflict,
			wantBlocks: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockBookingWriteQueries)
			q.On("CreateBooking", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.CreateBookingParams) bool {
				return p.PetID == 10 && p.StaffID == 20 && p.BlockCount == 2 && p.Status == "pending" && p.StartSlotID == 3
			})).Return(int64(42), tt.createErr)
			if tt.wantBlocks {
				q.On("ReleaseCancelledBlocks", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.ReleaseCancelledBlocksParams) bool {
					return assert.ObjectsAreEqual([]int64{3, 4}, p.SlotIds)
				})).Return(nil)
				q.On("InsertBookingBlocks", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.InsertBookingBlocksParams) bool {
					return p.BookingID == 42 && assert.ObjectsAreEqual([]int64{3, 4}, p.SlotIds)
				})).Return(tt.blocksErr)
			}

			repo := NewBookingRepository(q)
			id, err := repo.Create(context.Background(), nil, testBooking(0, schedule.StatusPending), tt.held)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			q.AssertExpectations(t)
		})
	}
}

func TestBookingRepository_Update(t *testing.T) {
	t.Run("replaces held blocks", func(t *testing.T) {
		q := new(MockBookingWriteQueries)
		q.On("UpdateBooking", mock.Anything, mock.Anything, mock.MatchedBy(func(p query.UpdateBookingParams) bool {
			return p.ID == 7 && p.Status == "confirmed"
		})).Return(int64(1), nil)
		q.On("DeleteBookingBlocks", mock.Anything, mock.Anything, int64(7)).Return(nil)
		q.On("ReleaseCancelledBlocks", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		q.On("InsertBookingBlocks", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		repo := NewBookingRepository(q)
		err := repo.Update(context.Background(), nil, testBooking(7, schedule.StatusConfirmed), []schedule.SlotID{3, 4})

		require.NoError(t, err)
		q.AssertExpectations(t)
	})

	t.Run("cancelled booking that frees slots only releases", func(t *testing.T) {
		q := new(MockBookingWriteQueries)
		q.On("UpdateBooking", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
		q.On("DeleteBookingBlocks", mock.Anything, mock.Anything, int64(7)).Return(nil)

		repo := NewBookingRepository(q)
		err := repo.Update(context.Background(), nil, testBooking(7, schedule.StatusCancelled), nil)

		require.NoError(t, err)
		q.AssertNotCalled(t, "InsertBookingBlocks", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stale cancelled rows are dropped before the insert", func(t *testing.T) {
		q := new(MockBookingWriteQueries)
		q.On("UpdateBooking", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
		q.On("DeleteBookingBlocks", mock.Anything, mock.Anything, int64(7)).Return(nil)
		q.On("ReleaseCancelledBlocks", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		repo := NewBookingRepository(q)
		err := repo.Update(context.Background(), nil, testBooking(7, schedule.StatusPending), []schedule.SlotID{3, 4})

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		q.AssertNotCalled(t, "InsertBookingBlocks", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing row", func(t *testing.T) {
		q := new(MockBookingWriteQueries)
		q.On("UpdateBooking", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

		repo := NewBookingRepository(q)
		err := repo.Update(context.Background(), nil, testBooking(7, schedule.StatusPending), nil)

		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestBookingRepository_Delete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		err      error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "success", affected: 1},
		{name: "not found", affected: 0, wantKind: infra.KindNotFound},
		{name: "database error", err: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := new(MockBookingWriteQueries)
			q.On("DeleteBooking", mock.Anything, mock.Anything, int64(5)).Return(tt.affected, tt.err)

			err := NewBookingRepository(q).Delete(context.Background(), nil, 5)

			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, infra.IsKind(err, tt.wantKind))
		})
	}
}
