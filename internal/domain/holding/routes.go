package holding

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/tickets/:id/holdings", h.Add)
	rg.GET("/tickets/:id/holdings", h.ListByTicket)
	rg.PATCH("/holdings/:id", h.Edit)
	rg.DELETE("/holdings/:id", h.Delete)
}
