package ticket

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"swingbay/internal/domain/catalog"
	"swingbay/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type issueTicketRequest struct {
	MemberID   int64  `json:"member_id" binding:"required"`
	TemplateID *int64 `json:"template_id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date" binding:"required"`
	ProID      *int64 `json:"pro_id"`
	Price      *int   `json:"price"`
	Memo       string `json:"memo"`

	Category         string `json:"category"`
	TotalTaseokCount *int   `json:"total_taseok_count"`
	TotalLessonCount *int   `json:"total_lesson_count"`
	DurationDays     *int   `json:"duration_days"`
	ValidityDays     *int   `json:"validity_days"`
}

func (h *Handler) Issue(c *gin.Context) {
	var req issueTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "start_date must be YYYY-MM-DD")
		return
	}

	t, err := h.service.Issue(c.Request.Context(), IssueRequest{
		MemberID:         req.MemberID,
		TemplateID:       req.TemplateID,
		Name:             req.Name,
		StartDate:        start,
		ProID:            req.ProID,
		Price:            req.Price,
		Memo:             req.Memo,
		Category:         catalog.TicketCategory(req.Category),
		TotalTaseokCount: req.TotalTaseokCount,
		TotalLessonCount: req.TotalLessonCount,
		DurationDays:     req.DurationDays,
		ValidityDays:     req.ValidityDays,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid ticket id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid ticket id")
		return
	}
	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) ListByMember(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid member id")
		return
	}
	tickets, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tickets)
}

func (h *Handler) ListLedger(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid member id")
		return
	}
	entries, err := h.service.ListLedger(c.Request.Context(), memberID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, ErrTicketNotFound):
		response.Error(c, http.StatusNotFound, "TICKET_NOT_FOUND", "ticket not found")
	case errors.Is(err, ErrMemberNotFound):
		response.Error(c, http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found")
	case errors.Is(err, ErrTemplateNotFound):
		response.Error(c, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "ticket template not found")
	case errors.Is(err, ErrHasScheduledBooking):
		response.Error(c, http.StatusConflict, "HAS_SCHEDULED_BOOKING", "ticket is referenced by a scheduled booking")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
