package api

import (
	"net/http"

	"clinic-scheduler/internal/domain/schedule"
	reqdto "clinic-scheduler/internal/handler/dto/request"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q queries.AvailabilityQueries
}

func NewAvailabilityHandler(q queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Valid start times
// @Description Start slots where the service fits on the date. A refused date or service returns an empty list with a reason.
// @Tags availability
// @Produce json
// @Param date query string true "Day (YYYY-MM-DD)"
// @Param serviceId query int false "Service ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) ValidStartTimes(c *gin.Context) {
	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	date, err := q.ParseDate()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date", nil)
		return
	}

	view, err := h.q.ValidStartTimes(c.Request.Context(), date, schedule.ServiceID(q.ServiceID))
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Time slots
// @Description The clinic's daily slot catalog in start-time order
// @Tags availability
// @Produce json
// @Success 200 {array} resdto.SlotResponse
// @Router /slots [get]
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	views, err := h.q.Slots(c.Request.Context())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}

// @Summary Services
// @Description Bookable services with the number of blocks each occupies
// @Tags availability
// @Produce json
// @Success 200 {array} resdto.ServiceResponse
// @Router /services [get]
func (h *AvailabilityHandler) Services(c *gin.Context) {
	views, err := h.q.Services(c.Request.Context())
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromServiceViews(views))
}
