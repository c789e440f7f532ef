package booking

import "time"

type createBookingRequest struct {
	MemberID  int64     `json:"member_id" binding:"required"`
	BoothID   int64     `json:"booth_id" binding:"required"`
	ProID     *int64    `json:"pro_id"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Type      string    `json:"type" binding:"required,oneof=taseok_only lesson"`
	Memo      string    `json:"memo"`
}

type cancelBookingRequest struct {
	ByAdmin bool `json:"by_admin"`
}

type bookingResponse struct {
	ID                 int64      `json:"id"`
	MemberID           int64      `json:"member_id"`
	BoothID            int64      `json:"booth_id"`
	ProID              *int64     `json:"pro_id,omitempty"`
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	DurationMinutes    int        `json:"duration_minutes"`
	UsedTaseokTicketID *int64     `json:"used_taseok_ticket_id,omitempty"`
	UsedLessonTicketID *int64     `json:"used_lesson_ticket_id,omitempty"`
	Memo               string     `json:"memo,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toBookingResponse(b *Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		MemberID:           b.MemberID,
		BoothID:            b.BoothID,
		ProID:              b.ProID,
		Type:               string(b.Type),
		Status:             string(b.Status),
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		DurationMinutes:    b.DurationMinutes,
		UsedTaseokTicketID: b.UsedTaseokTicketID,
		UsedLessonTicketID: b.UsedLessonTicketID,
		Memo:               b.Memo,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
	}
}

func toBookingResponses(bookings []Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}
