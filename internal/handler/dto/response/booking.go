package response

import (
	"time"

	"clinic-scheduler/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID          int64     `json:"id"`
	PetID       int64     `json:"petId"`
	StaffID     int64     `json:"staffId"`
	ServiceID   int64     `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	Date        string    `json:"date"`
	SlotID      int64     `json:"slotId"`
	Start       string    `json:"start"`
	Blocks      int       `json:"blocks"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BookingPageResponse struct {
	Items      []BookingResponse `json:"items"`
	NextCursor *string           `json:"nextCursor,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var out BookingResponse
	_ = copier.Copy(&out, v)
	return &out
}

func FromBookingViews(views []*queries.BookingView) []BookingResponse {
	out := make([]BookingResponse, 0, len(views))
	for _, v := range views {
		out = append(out, *FromBookingView(v))
	}
	return out
}

func FromBookingPage(views []*queries.BookingView, next *queries.Cursor) BookingPageResponse {
	resp := BookingPageResponse{Items: FromBookingViews(views)}
	if next != nil && next.After != "" {
		resp.NextCursor = &next.After
	}
	return resp
}
