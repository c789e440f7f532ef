package ticket

import (
	"time"

	"swingbay/internal/domain/catalog"
)

// Ticket is an issued entitlement: a date window and/or consumable counters
// a member redeems against booth and lesson use. Counters are nil when the
// ticket is not count-limited in that dimension (a period ticket has no
// taseok counter at all).
type Ticket struct {
	ID         int64  `gorm:"column:id;primaryKey" json:"id"`
	MemberID   int64  `gorm:"column:member_id;not null;index" json:"member_id"`
	TemplateID *int64 `gorm:"column:template_id;index" json:"template_id,omitempty"`

	Name     string                 `gorm:"column:name;not null" json:"name"`
	Category catalog.TicketCategory `gorm:"column:category;not null" json:"category"`

	IssueDate  time.Time  `gorm:"column:issue_date;not null" json:"issue_date"`
	StartDate  time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	ExpiryDate *time.Time `gorm:"column:expiry_date" json:"expiry_date,omitempty"`

	TotalTaseokCount     *int `gorm:"column:total_taseok_count" json:"total_taseok_count,omitempty"`
	RemainingTaseokCount *int `gorm:"column:remaining_taseok_count" json:"remaining_taseok_count,omitempty"`
	TotalLessonCount     *int `gorm:"column:total_lesson_count" json:"total_lesson_count,omitempty"`
	RemainingLessonCount *int `gorm:"column:remaining_lesson_count" json:"remaining_lesson_count,omitempty"`

	ProID *int64 `gorm:"column:pro_id" json:"pro_id,omitempty"`
	Price *int   `gorm:"column:price" json:"price,omitempty"`
	Memo  string `gorm:"column:memo;type:text" json:"memo,omitempty"`

	// No column defaults on the flags: gorm omits zero-value fields that
	// carry one from the INSERT, which would flip a stored false to true.
	// RefreshStatus sets all three before every persist.
	IsActive  bool `gorm:"column:is_active;not null" json:"is_active"`
	IsUsedUp  bool `gorm:"column:is_used_up;not null" json:"is_used_up"`
	IsExpired bool `gorm:"column:is_expired;not null" json:"is_expired"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Ticket) TableName() string { return "tickets" }

// DateOnly truncates t to midnight UTC. All date-window fields and
// comparisons in this package use this normalization.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// covers reports whether the ticket's validity window contains the given day.
// A nil expiry is unbounded.
func (t *Ticket) covers(day time.Time) bool {
	day = DateOnly(day)
	if t.StartDate.After(day) {
		return false
	}
	return t.ExpiryDate == nil || !t.ExpiryDate.Before(day)
}

func (t *Ticket) expiredOn(today time.Time) bool {
	return t.ExpiryDate != nil && t.ExpiryDate.Before(DateOnly(today))
}

// usedUp is true when every counter the ticket carries is exhausted. A
// ticket with no counters (pure period ticket) is never used up; a coupon
// carrying both counters is used up only when both reach zero.
func (t *Ticket) usedUp() bool {
	if t.TotalTaseokCount == nil && t.TotalLessonCount == nil {
		return false
	}
	taseokDone := t.TotalTaseokCount != nil && t.RemainingTaseokCount != nil && *t.RemainingTaseokCount <= 0
	lessonDone := t.TotalLessonCount != nil && t.RemainingLessonCount != nil && *t.RemainingLessonCount <= 0

	switch {
	case t.TotalTaseokCount != nil && t.TotalLessonCount != nil:
		return taseokDone && lessonDone
	case t.TotalTaseokCount != nil:
		return taseokDone
	default:
		return lessonDone
	}
}

// RefreshStatus recomputes the derived flags from the given date and the
// current counters. Call it after every mutation that can move them.
func (t *Ticket) RefreshStatus(today time.Time) {
	t.IsExpired = t.expiredOn(today)
	t.IsUsedUp = t.usedUp()
	t.IsActive = !t.IsExpired && !t.IsUsedUp
}

// DebitTaseok burns one taseok use. Period tickets carry no counter and must
// never be debited; selection guards this, so a failure here means the
// caller raced.
func (t *Ticket) DebitTaseok() error {
	if t.RemainingTaseokCount == nil {
		return ErrNotCountLimited
	}
	if *t.RemainingTaseokCount <= 0 {
		return ErrNoRemainingCount
	}
	*t.RemainingTaseokCount--
	return nil
}

// CreditTaseok restores one taseok use, capped at the total. Returns false
// when nothing changed, which makes a double rollback a silent no-op.
func (t *Ticket) CreditTaseok() bool {
	if t.RemainingTaseokCount == nil {
		return false
	}
	if t.TotalTaseokCount != nil && *t.RemainingTaseokCount >= *t.TotalTaseokCount {
		return false
	}
	*t.RemainingTaseokCount++
	return true
}

func (t *Ticket) DebitLesson() error {
	if t.RemainingLessonCount == nil {
		return ErrNotCountLimited
	}
	if *t.RemainingLessonCount <= 0 {
		return ErrNoRemainingCount
	}
	*t.RemainingLessonCount--
	return nil
}

func (t *Ticket) CreditLesson() bool {
	if t.RemainingLessonCount == nil {
		return false
	}
	if t.TotalLessonCount != nil && *t.RemainingLessonCount >= *t.TotalLessonCount {
		return false
	}
	*t.RemainingLessonCount++
	return true
}
