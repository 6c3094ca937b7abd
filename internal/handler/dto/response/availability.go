package response

import (
	"clinic-scheduler/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	SlotID int64  `json:"slotId"`
	Start  string `json:"start"`
}

type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Blocks          int    `json:"blocks"`
}

// AvailabilityResponse carries Reason instead of an error when the date or service is refused
type AvailabilityResponse struct {
	Date      string         `json:"date"`
	ServiceID int64          `json:"serviceId"`
	Slots     []SlotResponse `json:"slots"`
	Reason    string         `json:"reason,omitempty"`
}

func FromAvailabilityView(v *queries.AvailabilityView) AvailabilityResponse {
	return AvailabilityResponse{
		Date:      v.Date,
		ServiceID: v.ServiceID,
		Slots:     FromSlotViews(v.Slots),
		Reason:    v.Reason,
	}
}

func FromSlotViews(views []queries.SlotView) []SlotResponse {
	out := make([]SlotResponse, len(views))
	for i := range views {
		_ = copier.Copy(&out[i], &views[i])
	}
	return out
}

func FromServiceViews(views []queries.ServiceView) []ServiceResponse {
	out := make([]ServiceResponse, len(views))
	for i := range views {
		_ = copier.Copy(&out[i], &views[i])
	}
	return out
}
