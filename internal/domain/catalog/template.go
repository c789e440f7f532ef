package catalog

import (
	"fmt"
	"strings"
	"time"
)

// TicketCategory decides which counters a ticket carries and what it may pay
// for: period and combo tickets cover taseok use by date window, count
// tickets by countdown, coupons pay taseok and lesson from one countdown,
// and lesson-add tickets carry lessons only.
type TicketCategory string

const (
	CategoryPeriod    TicketCategory = "period"
	CategoryCount     TicketCategory = "count"
	CategoryCoupon    TicketCategory = "coupon"
	CategoryLessonAdd TicketCategory = "lesson_add"
	CategoryCombo     TicketCategory = "combo"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryPeriod, CategoryCount, CategoryCoupon, CategoryLessonAdd, CategoryCombo:
		return true
	}
	return false
}

// TicketTemplate is the read-only product definition tickets are issued from.
type TicketTemplate struct {
	ID       int64          `gorm:"column:id;primaryKey" json:"id"`
	Name     string         `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Category TicketCategory `gorm:"column:category;not null" json:"category"`

	// DurationDays bounds period/combo tickets; DefaultValidityDays bounds
	// count/coupon tickets. Nil means the issued ticket has no expiry.
	DurationDays        *int `gorm:"column:duration_days" json:"duration_days,omitempty"`
	DefaultValidityDays *int `gorm:"column:default_validity_days" json:"default_validity_days,omitempty"`

	TotalTaseokCount *int `gorm:"column:total_taseok_count" json:"total_taseok_count,omitempty"`
	TotalLessonCount *int `gorm:"column:total_lesson_count" json:"total_lesson_count,omitempty"`

	Price       *int      `gorm:"column:price" json:"price,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (TicketTemplate) TableName() string { return "ticket_templates" }

// GenerateTicketName builds a display name for a ticket issued from this
// template when the operator does not supply one.
func (t *TicketTemplate) GenerateTicketName() string {
	var details []string
	switch t.Category {
	case CategoryPeriod:
		if t.DurationDays != nil && *t.DurationDays >= 30 {
			details = append(details, fmt.Sprintf("%d mo", *t.DurationDays/30))
		}
	case CategoryCount:
		if t.TotalTaseokCount != nil {
			details = append(details, fmt.Sprintf("%d rounds", *t.TotalTaseokCount))
		}
	case CategoryCoupon:
		if t.TotalTaseokCount != nil {
			details = append(details, fmt.Sprintf("taseok+lesson x%d", *t.TotalTaseokCount))
		}
	case CategoryLessonAdd:
		if t.TotalLessonCount != nil {
			details = append(details, fmt.Sprintf("+%d lessons", *t.TotalLessonCount))
		}
	case CategoryCombo:
		if t.DurationDays != nil && *t.DurationDays >= 30 {
			details = append(details, fmt.Sprintf("%d mo", *t.DurationDays/30))
		}
		if t.TotalLessonCount != nil {
			details = append(details, fmt.Sprintf("%d lessons", *t.TotalLessonCount))
		}
	}
	if len(details) == 0 {
		return t.Name
	}
	return fmt.Sprintf("%s (%s)", t.Name, strings.Join(details, ", "))
}
