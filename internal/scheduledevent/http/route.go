package http

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the scheduled-event endpoints. All of them require an
// authenticated caller; role enforcement happens in the service layer.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	events := rg.Group("/scheduled-events")
	events.Use(authMiddleware)
	{
		events.GET("", h.List)
		events.POST("", h.Create)
		// Static segment must be declared alongside the :id routes; gin gives
		// it priority over the parameter match.
		events.GET("/by-equipment", h.ListByEquipment)
		events.GET("/:id", h.Get)
		events.DELETE("/:id", h.Delete)
		events.GET("/:id/equipment", h.ListEquipment)
		events.GET("/:id/equipment/:equipmentId", h.GetEquipmentAssignment)
	}

	bookings := rg.Group("/proposal-bookings")
	bookings.Use(authMiddleware)
	{
		bookings.GET("/:id/scheduled-events", h.ListByProposalBooking)
		bookings.GET("/:id/scheduled-events/:eventId", h.GetByProposalBooking)
	}
}
