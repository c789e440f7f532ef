package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"swingbay/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type setBoothStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available occupied booked offline maintenance"`
}

func (h *Handler) ListBooths(c *gin.Context) {
	booths, err := h.repo.ListBooths(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	response.Success(c, http.StatusOK, booths)
}

func (h *Handler) GetBooth(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid booth id")
		return
	}
	booth, err := h.repo.GetBooth(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBoothNotFound) {
			response.Error(c, http.StatusNotFound, "BOOTH_NOT_FOUND", "booth not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	response.Success(c, http.StatusOK, booth)
}

func (h *Handler) SetBoothStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid booth id")
		return
	}
	var req setBoothStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	booth, err := h.repo.SetBoothStatus(c.Request.Context(), id, BoothStatus(req.Status))
	if err != nil {
		if errors.Is(err, ErrBoothNotFound) {
			response.Error(c, http.StatusNotFound, "BOOTH_NOT_FOUND", "booth not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	response.Success(c, http.StatusOK, booth)
}

func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.repo.ListActiveTemplates(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	response.Success(c, http.StatusOK, templates)
}

func (h *Handler) GetTemplate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid template id")
		return
	}
	tmpl, err := h.repo.GetTemplate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			response.Error(c, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "ticket template not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	response.Success(c, http.StatusOK, tmpl)
}

func RegisterRoutes(rg *gin.RouterGroup, h *Handler) {
	rg.GET("/booths", h.ListBooths)
	rg.GET("/booths/:id", h.GetBooth)
	rg.PATCH("/booths/:id/status", h.SetBoothStatus)
	rg.GET("/templates", h.ListTemplates)
	rg.GET("/templates/:id", h.GetTemplate)
}
