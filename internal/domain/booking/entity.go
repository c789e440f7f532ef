package booking

import "time"

type Type string

const (
	TypeTaseokOnly Type = "taseok_only"
	TypeLesson     Type = "lesson"
)

type Status string

const (
	StatusScheduled      Status = "scheduled"
	StatusCompleted      Status = "completed"
	StatusCancelledUser  Status = "cancelled_by_user"
	StatusCancelledAdmin Status = "cancelled_by_admin"
	StatusNoShow         Status = "no_show"
)

// Booking reserves a booth for a member over [StartTime, EndTime). The two
// ticket references record what paid for it: UsedTaseokTicketID is nil for
// nothing-to-debit period tickets only when no ticket was involved at all,
// and a lesson booking with a nil UsedLessonTicketID drew from the member's
// pooled lesson credit instead of a coupon.
type Booking struct {
	ID       int64  `gorm:"column:id;primaryKey" json:"id"`
	MemberID int64  `gorm:"column:member_id;not null;index" json:"member_id"`
	BoothID  int64  `gorm:"column:booth_id;not null;index" json:"booth_id"`
	ProID    *int64 `gorm:"column:pro_id;index" json:"pro_id,omitempty"`

	Type   Type   `gorm:"column:booking_type;not null" json:"type"`
	Status Status `gorm:"column:status;not null;index" json:"status"`

	StartTime       time.Time `gorm:"column:start_time;not null;index" json:"start_time"`
	EndTime         time.Time `gorm:"column:end_time;not null" json:"end_time"`
	DurationMinutes int       `gorm:"column:duration_minutes" json:"duration_minutes"`

	UsedTaseokTicketID *int64 `gorm:"column:used_taseok_ticket_id;index" json:"used_taseok_ticket_id,omitempty"`
	UsedLessonTicketID *int64 `gorm:"column:used_lesson_ticket_id;index" json:"used_lesson_ticket_id,omitempty"`

	Memo        string     `gorm:"column:memo;type:text" json:"memo,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at" json:"updated_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
}

func (Booking) TableName() string { return "bookings" }
