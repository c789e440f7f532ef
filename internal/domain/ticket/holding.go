package ticket

import "time"

// Holding is an administrator-defined suspension interval on a ticket. Its
// duration (inclusive of both endpoints) is added to the ticket's expiry
// while it exists. Holdings are exclusively owned by their ticket and are
// removed with it. Interval management lives in the holding package.
type Holding struct {
	ID           int64     `gorm:"column:id;primaryKey" json:"id"`
	TicketID     int64     `gorm:"column:ticket_id;not null;index" json:"ticket_id"`
	StartDate    time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate      time.Time `gorm:"column:end_date;not null" json:"end_date"`
	Reason       string    `gorm:"column:reason" json:"reason,omitempty"`
	DurationDays int       `gorm:"column:duration_days;not null" json:"duration_days"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Holding) TableName() string { return "holdings" }

// HoldingDuration returns the inclusive day count of [start, end], or 0 for
// an inverted interval.
func HoldingDuration(start, end time.Time) int {
	start, end = DateOnly(start), DateOnly(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}
