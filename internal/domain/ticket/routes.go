package ticket

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.POST("/tickets", h.Issue)
	rg.GET("/tickets/:id", h.Get)
	rg.DELETE("/tickets/:id", h.Delete)
	rg.GET("/members/:id/tickets", h.ListByMember)
	rg.GET("/members/:id/ledger", h.ListLedger)
}
