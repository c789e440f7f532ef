package booking

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

func (h *Handler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), CreateRequest{
		MemberID:  req.MemberID,
		BoothID:   req.BoothID,
		ProID:     req.ProID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Type:      Type(req.Type),
		Memo:      req.Memo,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid booking id")
		return
	}

	var req cancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
	}

	b, err := h.service.CancelBooking(c.Request.Context(), id, req.ByAdmin)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid booking id")
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) ListByMember(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid member id")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.service.ListByMember(c.Request.Context(), memberID, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponses(bookings))
}

func (h *Handler) BoothSchedule(c *gin.Context) {
	boothID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid booth id")
		return
	}
	day, err := time.Parse("2006-01-02", c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02")))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "date must be YYYY-MM-DD")
		return
	}

	bookings, err := h.service.BoothSchedule(c.Request.Context(), boothID, day)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponses(bookings))
}

// SelectionPreview shows what would pay for a booking at the given time
// without debiting anything, for the front-desk confirmation dialog.
func (h *Handler) SelectionPreview(c *gin.Context) {
	memberID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid member id")
		return
	}
	at, err := time.Parse(time.RFC3339, c.DefaultQuery("at", time.Now().UTC().Format(time.RFC3339)))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "at must be RFC3339")
		return
	}

	switch c.DefaultQuery("type", string(TypeTaseokOnly)) {
	case string(TypeTaseokOnly):
		tk, err := h.service.SelectForTaseok(c.Request.Context(), memberID, at)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"ticket": tk})
	case string(TypeLesson):
		tk, usePool, err := h.service.SelectForLesson(c.Request.Context(), memberID, at)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"ticket": tk, "use_pooled_credit": usePool})
	default:
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "type must be taseok_only or lesson")
	}
}

func (h *Handler) Availability(c *gin.Context) {
	boothID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid booth id")
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "end must be RFC3339")
		return
	}

	free, err := h.service.IsBoothAvailable(c.Request.Context(), boothID, start, end, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"available": free})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "booking not found")
	case errors.Is(err, ErrMemberNotFound):
		response.Error(c, http.StatusNotFound, "MEMBER_NOT_FOUND", "member not found")
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "booth is not available for the requested time")
	case errors.Is(err, ErrNoTaseokTicket):
		response.Error(c, http.StatusUnprocessableEntity, "NO_TASEOK_TICKET", "no usable taseok ticket covers the requested time")
	case errors.Is(err, ErrNoLessonCredit):
		response.Error(c, http.StatusUnprocessableEntity, "NO_LESSON_CREDIT", "no lesson coupon or pooled lesson credit available")
	case errors.Is(err, ErrWrongCategory):
		response.Error(c, http.StatusUnprocessableEntity, "WRONG_TICKET_CATEGORY", "coupon tickets cannot pay for taseok-only bookings")
	case errors.Is(err, ErrNotCancellable):
		response.Error(c, http.StatusConflict, "NOT_CANCELLABLE", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
