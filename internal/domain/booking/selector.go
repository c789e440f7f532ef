package booking

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"swingbay/internal/domain/catalog"
	"swingbay/internal/domain/ticket"
)

// Soonest-expiring first, unbounded-expiry tickets last, lowest id breaks
// ties. Works the same on sqlite and postgres.
const selectionOrder = "expiry_date IS NULL, expiry_date, id"

// findTicketForTaseok picks the ticket that pays for booth use on the given
// day: an active period or combo ticket whose window covers the day wins;
// failing that, a count or coupon ticket with taseok uses left. Returns
// (nil, nil) when the member has nothing valid.
func findTicketForTaseok(tx *gorm.DB, memberID int64, day time.Time, forUpdate bool) (*ticket.Ticket, error) {
	day = ticket.DateOnly(day)

	t, err := firstTicket(tx, forUpdate, func(q *gorm.DB) *gorm.DB {
		return q.Where("member_id = ? AND is_active = ?", memberID, true).
			Where("category IN ?", []catalog.TicketCategory{catalog.CategoryPeriod, catalog.CategoryCombo}).
			Where("start_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)", day, day)
	})
	if err != nil || t != nil {
		return t, err
	}

	return firstTicket(tx, forUpdate, func(q *gorm.DB) *gorm.DB {
		return q.Where("member_id = ? AND is_active = ?", memberID, true).
			Where("category IN ?", []catalog.TicketCategory{catalog.CategoryCount, catalog.CategoryCoupon}).
			Where("remaining_taseok_count > 0").
			Where("start_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)", day, day)
	})
}

// findCouponForLesson picks the coupon that pays for a lesson on the given
// day, if any. Coupons are preferred over the member's pooled credit because
// they expire; the caller falls back to the pool itself.
func findCouponForLesson(tx *gorm.DB, memberID int64, day time.Time, forUpdate bool) (*ticket.Ticket, error) {
	day = ticket.DateOnly(day)

	return firstTicket(tx, forUpdate, func(q *gorm.DB) *gorm.DB {
		return q.Where("member_id = ? AND is_active = ?", memberID, true).
			Where("category = ?", catalog.CategoryCoupon).
			Where("remaining_lesson_count > 0").
			Where("start_date <= ? AND (expiry_date IS NULL OR expiry_date >= ?)", day, day)
	})
}

func firstTicket(tx *gorm.DB, forUpdate bool, where func(*gorm.DB) *gorm.DB) (*ticket.Ticket, error) {
	q := tx.Model(&ticket.Ticket{})
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var t ticket.Ticket
	err := where(q).Order(selectionOrder).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
