package httperr

import (
	"net/http"

	"clinic-scheduler/internal/domain/schedule"
	"clinic-scheduler/internal/pkg/errs"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// RejectionDetail is the machine-readable part of a refused booking request
type RejectionDetail struct {
	Reason string `json:"reason"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(&gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithDomainError maps usecase errors onto HTTP statuses; rejections keep their reason code
func AbortWithDomainError(c *gin.Context, err error) {
	if reason, ok := schedule.ReasonOf(err); ok {
		AbortWithError(c, StatusForReason(reason), err, err.Error(), RejectionDetail{Reason: string(reason)})
		return
	}

	switch {
	case errs.Is(err, commands.ErrForbidden):
		AbortWithError(c, http.StatusForbidden, err, "Forbidden", nil)
	case errs.Is(err, queries.ErrInvalidCursor):
		AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
	case errs.Is(err, errs.ErrLockUnavailable):
		AbortWithError(c, http.StatusServiceUnavailable, err, "Schedule is busy, please retry", nil)
	default:
		AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func StatusForReason(reason schedule.Reason) int {
	switch reason {
	case schedule.ReasonNotFound:
		return http.StatusNotFound
	case schedule.ReasonSlotConflict, schedule.ReasonIllegalStatusTransition, schedule.ReasonBookingLocked:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}
