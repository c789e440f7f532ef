package booking

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings/:id", h.Get)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.GET("/members/:id/bookings", h.ListByMember)
	rg.GET("/members/:id/selection", h.SelectionPreview)
	rg.GET("/booths/:id/schedule", h.BoothSchedule)
	rg.GET("/booths/:id/availability", h.Availability)
}
