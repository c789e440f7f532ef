package member

import "time"

// Member is an academy customer. Two aggregate fields live here:
// RemainingLessonTotal is the pooled lesson credit not tied to a single
// ticket, and MasterExpiryDate is the latest expiry among the member's
// active tickets. Both are maintained by the ticket/holding/booking
// services and must never be edited by hand.
type Member struct {
	ID         int64  `gorm:"column:id;primaryKey" json:"id"`
	Name       string `gorm:"column:name;not null" json:"name"`
	Phone      string `gorm:"column:phone;uniqueIndex" json:"phone"`
	PhoneLast4 string `gorm:"column:phone_last4;size:4" json:"phone_last4,omitempty"`

	MasterExpiryDate     *time.Time `gorm:"column:master_expiry_date" json:"master_expiry_date,omitempty"`
	RemainingLessonTotal int        `gorm:"column:remaining_lesson_total;not null;default:0" json:"remaining_lesson_total"`

	Memo      string    `gorm:"column:memo;type:text" json:"memo,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

func (m *Member) SetPhoneLast4() {
	if len(m.Phone) >= 4 {
		m.PhoneLast4 = m.Phone[len(m.Phone)-4:]
	} else {
		m.PhoneLast4 = ""
	}
}
