package components

import (
	"clinic-scheduler/internal/handler"
	"clinic-scheduler/internal/handler/api"
	"clinic-scheduler/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewBookingHandler,
		middleware.NewAuthMiddleware,
		middleware.NewRateLimiter,
		func(a *api.AvailabilityHandler, b *api.BookingHandler) handler.Handlers {
			return handler.Handlers{Availability: a, Booking: b}
		},
	),
	fx.Invoke(handler.NewRouter),
)
