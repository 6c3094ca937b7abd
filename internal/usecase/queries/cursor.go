package queries

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"clinic-scheduler/internal/domain/schedule"
)

const (
	MaxListLimit    = 200
	CursorVersionV1 = "v1"
)

// Keyset cursor over (booking date, booking id)
func EncodeAfterCursor(date schedule.Date, id schedule.BookingID) string {
	cursorData := fmt.Sprintf("%s:%s:%d", CursorVersionV1, date.String(), id)
	return base64.URLEncoding.EncodeToString([]byte(cursorData))
}

func DecodeAfterCursor(cursor string) (schedule.Date, schedule.BookingID, error) {
	if cursor == "" {
		return schedule.Date{}, 0, fmt.Errorf("cursor cannot be empty")
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return schedule.Date{}, 0, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return schedule.Date{}, 0, fmt.Errorf("unsupported cursor version")
	}

	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return schedule.Date{}, 0, fmt.Errorf("invalid cursor format: expected '<date>:<id>'")
	}

	date, err := schedule.ParseDate(parts[0])
	if err != nil {
		return schedule.Date{}, 0, fmt.Errorf("invalid date: %w", err)
	}

	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return schedule.Date{}, 0, fmt.Errorf("invalid id: %w", err)
	}

	return date, schedule.BookingID(id), nil
}

type Cursor struct {
	After string `json:"after,omitempty"`
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default limit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
