//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/domain/user"
	"clinic-scheduler/internal/handler/api"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/pkg/jwt"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"
	"clinic-scheduler/tests/common/builder"
	"clinic-scheduler/tests/common/httptest"
	"clinic-scheduler/tests/common/testutil"
	commandsmock "clinic-scheduler/tests/mock/commands"
	queriesmock "clinic-scheduler/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const (
	clientToken = "client-token"
	staffToken  = "staff-token"
)

// stubValidator accepts two fixed tokens so the real auth middleware can run in front of the handlers
type stubValidator struct {
	client commands.Actor
	staff  commands.Actor
}

func (v stubValidator) ValidateToken(token string) (commands.Actor, error) {
	switch token {
	case clientToken:
		return v.client, nil
	case staffToken:
		return v.staff, nil
	default:
		return commands.Actor{}, jwt.ErrInvalidToken
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	client       commands.Actor
	staff        commands.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	h := api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.client = commands.Actor{UserID: uuid.New(), Role: user.RoleClient}
	s.staff = commands.Actor{UserID: uuid.New(), Role: user.RoleStaff}
	auth := middleware.NewAuthMiddleware(stubValidator{client: s.client, staff: s.staff})

	g := s.router.Group("/bookings", auth.RequireAuth())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"
	b := builder.NewBookingBuilder()
	reqBody := b.BuildCreateRequestDTO()
	returnView := b.BuildView()

	s.Run("success: returns 201 Created with the booking", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), s.client).
			DoAndReturn(func(_ context.Context, in commands.CreateBookingInput, _ commands.Actor) (*queries.BookingView, error) {
				s.True(in.Date.Equal(b.Date))
				s.Equal(b.StartSlotID, in.SlotID)
				s.Equal(b.ServiceID, in.ServiceID)
				s.Equal(b.PetID, in.PetID)
				return returnView, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, clientToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(returnView.ID, body.ID)
		s.Equal("10:00", body.Start)
		s.Equal("pending", body.Status)
	})

	s.Run("success: a blank date reaches the usecase as missing", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, in commands.CreateBookingInput, _ commands.Actor) (*queries.BookingView, error) {
				s.True(in.Date.IsZero())
				return nil, schedule.ErrMissingField
			}).Times(1)

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("date", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, clientToken)
		httptest.AssertRejection(s.T(), rec, http.StatusUnprocessableEntity, "missing_field")
	})

	s.Run("error: 400 Bad Request on malformed input", func() {
		cases := []struct {
			name string
			body any
			msg  string
		}{
			{name: "not json", body: "{petId:", msg: "Invalid request"},
			{name: "wrong type", body: testutil.DtoMap(s.T(), reqBody, testutil.Field("slotId", "ten")), msg: "Invalid request"},
			{name: "unparseable date", body: testutil.DtoMap(s.T(), reqBody, testutil.Field("date", "2025-13-40")), msg: "Invalid date"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, tc.body, clientToken)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, tc.msg)
			})
		}
	})

	s.Run("error: 401 Unauthorized without a valid token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "forged")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("error: rejections map to status and reason", func() {
		cases := []struct {
			err    error
			status int
			reason string
		}{
			{err: schedule.ErrSlotConflict, status: http.StatusConflict, reason: "slot_conflict"},
			{err: schedule.ErrInvalidSlot, status: http.StatusUnprocessableEntity, reason: "invalid_slot"},
			{err: schedule.ErrInvalidService, status: http.StatusUnprocessableEntity, reason: "invalid_service"},
			{err: schedule.ErrPastDate, status: http.StatusUnprocessableEntity, reason: "past_date"},
			{err: schedule.ErrNonOperatingDay, status: http.StatusUnprocessableEntity, reason: "non_operating_day"},
			{err: schedule.ErrPastTimeToday, status: http.StatusUnprocessableEntity, reason: "past_time_today"},
			{err: schedule.ErrIllegalStatusTransition, status: http.StatusConflict, reason: "illegal_status_transition"},
		}
		for _, tc := range cases {
			s.Run(tc.reason, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, clientToken)
				httptest.AssertRejection(s.T(), rec, tc.status, tc.reason)
			})
		}
	})

	s.Run("error: infrastructure failures", func() {
		cases := []struct {
			name   string
			err    error
			status int
			msg    string
		}{
			{
				name:   "date lock busy",
				err:    errs.Mark(errors.New("redis timeout"), errs.ErrLockUnavailable),
				status: http.StatusServiceUnavailable,
				msg:    "Schedule is busy",
			},
			{
				name:   "database failure",
				err:    errs.Mark(errors.New("connection reset"), errs.ErrDatabaseOperationFailed),
				status: http.StatusInternalServerError,
				msg:    "Internal server error",
			},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, clientToken)
				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.msg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	returnView := builder.NewBookingBuilder().WithID(7).BuildView()

	s.Run("success: returns 200 OK", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), schedule.BookingID(7)).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/7", nil, clientToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(7), body.ID)
		s.Equal(returnView.Date, body.Date)
	})

	s.Run("error: 400 Bad Request for a malformed id", func() {
		for _, id := range []string{"abc", "0", "-3"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id, nil, clientToken)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
		}
	})

	s.Run("error: 404 Not Found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), schedule.BookingID(7)).
			Return(nil, schedule.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/7", nil, clientToken)
		httptest.AssertRejection(s.T(), rec, http.StatusNotFound, "not_found")
	})
}

// ================================================================================
// TestUpdate
// ================================================================================

func (s *BookingHandlerTestSuite) TestUpdate() {
	url := "/bookings/5"
	returnView := builder.NewBookingBuilder().WithID(5).WithStatus(schedule.StatusConfirmed).BuildView()

	s.Run("success: only supplied fields are forwarded", func() {
		s.mockCommands.EXPECT().Edit(gomock.Any(), gomock.Any(), s.staff).
			DoAndReturn(func(_ context.Context, in commands.EditBookingInput, _ commands.Actor) (*queries.BookingView, error) {
				s.Equal(schedule.BookingID(5), in.ID)
				s.Require().NotNil(in.Status)
				s.Equal("confirmed", *in.Status)
				s.Nil(in.Date)
				s.Nil(in.SlotID)
				s.Nil(in.ServiceID)
				return returnView, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"status": "confirmed"}, staffToken)

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
	})

	s.Run("success: a move carries date and slot", func() {
		s.mockCommands.EXPECT().Edit(gomock.Any(), gomock.Any(), s.client).
			DoAndReturn(func(_ context.Context, in commands.EditBookingInput, _ commands.Actor) (*queries.BookingView, error) {
				s.Require().NotNil(in.Date)
				s.Equal("2025-03-12", in.Date.String())
				s.Require().NotNil(in.SlotID)
				s.Equal(schedule.SlotID(3), *in.SlotID)
				return returnView, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"date": "2025-03-12", "slotId": 3}, clientToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: rejections map to status and reason", func() {
		cases := []struct {
			err    error
			status int
			reason string
		}{
			{err: schedule.ErrBookingLocked, status: http.StatusConflict, reason: "booking_locked"},
			{err: schedule.ErrIllegalStatusTransition, status: http.StatusConflict, reason: "illegal_status_transition"},
			{err: schedule.ErrSlotConflict, status: http.StatusConflict, reason: "slot_conflict"},
			{err: schedule.ErrNotFound, status: http.StatusNotFound, reason: "not_found"},
		}
		for _, tc := range cases {
			s.Run(tc.reason, func() {
				s.mockCommands.EXPECT().Edit(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"status": "completed"}, clientToken)
				httptest.AssertRejection(s.T(), rec, tc.status, tc.reason)
			})
		}
	})

	s.Run("error: 400 Bad Request for an unparseable date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"date": "tomorrow"}, clientToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid date")
	})
}

// ================================================================================
// TestDelete
// ================================================================================

func (s *BookingHandlerTestSuite) TestDelete() {
	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), schedule.BookingID(9), s.staff).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/9", nil, staffToken)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusNoContent, nil)
	})

	s.Run("error: 403 Forbidden for clients", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), schedule.BookingID(9), s.client).
			Return(commands.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/9", nil, clientToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Forbidden")
	})

	s.Run("error: 404 Not Found", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), schedule.BookingID(9), gomock.Any()).
			Return(schedule.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/9", nil, staffToken)
		httptest.AssertRejection(s.T(), rec, http.StatusNotFound, "not_found")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestList() {
	first := builder.NewBookingBuilder().WithID(1).BuildView()
	second := builder.NewBookingBuilder().WithID(2).WithSlot(builder.SlotAt(13, 0)).BuildView()

	s.Run("success: one day", func() {
		s.mockQueries.EXPECT().ListByDate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, date schedule.Date) ([]*queries.BookingView, error) {
				s.Equal("2025-03-11", date.String())
				return []*queries.BookingView{first, second}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?date=2025-03-11", nil, clientToken)

		var body resdto.BookingPageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 2)
		s.Equal("13:00", body.Items[1].Start)
		s.Nil(body.NextCursor)
	})

	s.Run("success: range page with a next cursor", func() {
		s.mockQueries.EXPECT().ListRange(gomock.Any(), gomock.Any(), &queries.Cursor{After: "abc"}, 1).
			DoAndReturn(func(_ context.Context, f queries.BookingFilters, _ *queries.Cursor, _ int) ([]*queries.BookingView, *queries.Cursor, error) {
				s.Equal("2025-03-10", f.From.String())
				s.Equal("2025-03-14", f.To.String())
				s.Require().NotNil(f.Status)
				s.Equal(schedule.StatusConfirmed, *f.Status)
				return []*queries.BookingView{first}, &queries.Cursor{After: "next"}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/bookings?from=2025-03-10&to=2025-03-14&status=Confirmed&cursor=abc&limit=1", nil, clientToken)

		var body resdto.BookingPageResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 1)
		s.Require().NotNil(body.NextCursor)
		s.Equal("next", *body.NextCursor)
	})

	s.Run("error: 422 without date or range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, clientToken)
		httptest.AssertRejection(s.T(), rec, http.StatusUnprocessableEntity, "missing_field")
	})

	s.Run("error: 400 Bad Request for bad filters", func() {
		for _, q := range []string{"?date=11-03-2025", "?from=2025-03-10&to=2025-03-14&status=lost", "?from=x&to=2025-03-14", "?date=2025-03-11&limit=500"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings"+q, nil, clientToken)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
		}
	})

	s.Run("error: 400 Bad Request for a tampered cursor", func() {
		s.mockQueries.EXPECT().ListRange(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?from=2025-03-10&to=2025-03-14&cursor=zzz", nil, clientToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cursor")
	})
}
