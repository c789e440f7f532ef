package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

const (
	TopicBookingCreated   = "booking.created"
	TopicBookingCancelled = "booking.cancelled"
	TopicTicketIssued     = "ticket.issued"
)

type Header struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewHeader() Header {
	return Header{
		ID:          watermill.NewUUID(),
		PublishedAt: time.Now().UTC(),
	}
}

type BookingCreated struct {
	Header    Header    `json:"header"`
	BookingID int64     `json:"booking_id"`
	MemberID  int64     `json:"member_id"`
	BoothID   int64     `json:"booth_id"`
	Type      string    `json:"type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type BookingCancelled struct {
	Header    Header `json:"header"`
	BookingID int64  `json:"booking_id"`
	MemberID  int64  `json:"member_id"`
	BoothID   int64  `json:"booth_id"`
	ByAdmin   bool   `json:"by_admin"`
}

type TicketIssued struct {
	Header     Header     `json:"header"`
	TicketID   int64      `json:"ticket_id"`
	MemberID   int64      `json:"member_id"`
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}
