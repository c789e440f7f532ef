package holding

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"swingbay/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type holdingRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason"`
}

func (r holdingRequest) dates() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (h *Handler) Add(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid ticket id")
		return
	}
	var req holdingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	start, end, err := req.dates()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "dates must be YYYY-MM-DD")
		return
	}

	hd, err := h.service.Add(c.Request.Context(), AddRequest{
		TicketID:  ticketID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, hd)
}

func (h *Handler) Edit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid holding id")
		return
	}
	var req holdingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	start, end, err := req.dates()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "dates must be YYYY-MM-DD")
		return
	}

	hd, err := h.service.Edit(c.Request.Context(), id, EditRequest{
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hd)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid holding id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) ListByTicket(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid ticket id")
		return
	}
	holdings, err := h.service.ListByTicket(c.Request.Context(), ticketID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, holdings)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, "OVERLAP_CONFLICT",
			"holding overlaps an existing holding on this ticket",
			gin.H{"conflicting_holding_id": conflict.HoldingID})
	case errors.Is(err, ErrInvalidRange):
		response.Error(c, http.StatusBadRequest, "INVALID_RANGE", "end date is before start date")
	case errors.Is(err, ErrOutOfBounds):
		response.Error(c, http.StatusBadRequest, "OUT_OF_BOUNDS", "holding must lie inside the ticket's validity window")
	case errors.Is(err, ErrHoldingNotFound):
		response.Error(c, http.StatusNotFound, "HOLDING_NOT_FOUND", "holding not found")
	case errors.Is(err, ErrTicketNotFound):
		response.Error(c, http.StatusNotFound, "TICKET_NOT_FOUND", "ticket not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
