package ticket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"swingbay/internal/domain/catalog"
	"swingbay/internal/domain/member"
	"swingbay/internal/pkg/events"
)

// ScheduledBookingGuard is satisfied by the booking service; it keeps this
// package from depending on the booking tables directly.
type ScheduledBookingGuard interface {
	HasScheduledForTicket(tx *gorm.DB, ticketID int64) (bool, error)
}

// EventPublisher is satisfied by events.Publisher. A nil publisher disables
// event emission.
type EventPublisher interface {
	TicketIssued(ctx context.Context, e events.TicketIssued) error
}

type Service struct {
	db       *gorm.DB
	bookings ScheduledBookingGuard
	pub      EventPublisher
}

func NewService(db *gorm.DB, bookings ScheduledBookingGuard, pub EventPublisher) *Service {
	return &Service{db: db, bookings: bookings, pub: pub}
}

// IssueRequest describes a ticket to issue. When TemplateID is set the
// template's category, counters and duration win; otherwise the manual
// fields are used as-is.
type IssueRequest struct {
	MemberID   int64
	TemplateID *int64
	Name       string
	StartDate  time.Time
	ProID      *int64
	Price      *int
	Memo       string

	// manual issuance (no template)
	Category         catalog.TicketCategory
	TotalTaseokCount *int
	TotalLessonCount *int
	DurationDays     *int
	ValidityDays     *int
}

// Issue creates a ticket for a member. Issuing a ticket that carries a
// lesson count also adds that count to the member's pooled lesson credit,
// and the member's master expiry date is recomputed — all in one
// transaction.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*Ticket, error) {
	if req.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrValidation)
	}

	var t *Ticket
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m member.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, req.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		var tmpl *catalog.TicketTemplate
		if req.TemplateID != nil {
			tmpl = &catalog.TicketTemplate{}
			if err := tx.First(tmpl, *req.TemplateID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTemplateNotFound
				}
				return err
			}
		}

		built, err := buildTicket(req, tmpl)
		if err != nil {
			return err
		}
		built.RefreshStatus(time.Now().UTC())

		if err := tx.Create(built).Error; err != nil {
			return err
		}
		if err := AppendLedger(tx, LedgerEntry{MemberID: m.ID, TicketID: &built.ID, Kind: LedgerIssue}); err != nil {
			return err
		}

		if built.TotalLessonCount != nil && *built.TotalLessonCount > 0 {
			m.RemainingLessonTotal += *built.TotalLessonCount
			if err := tx.Model(&member.Member{}).Where("id = ?", m.ID).
				Update("remaining_lesson_total", m.RemainingLessonTotal).Error; err != nil {
				return err
			}
			if err := AppendLedger(tx, LedgerEntry{
				MemberID: m.ID, TicketID: &built.ID, Kind: LedgerPoolCredit, Delta: *built.TotalLessonCount,
			}); err != nil {
				return err
			}
		}

		if err := RecalculateMasterExpiry(tx, m.ID); err != nil {
			return err
		}
		t = built
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.pub != nil {
		_ = s.pub.TicketIssued(ctx, events.TicketIssued{
			Header:     events.NewHeader(),
			TicketID:   t.ID,
			MemberID:   t.MemberID,
			Name:       t.Name,
			Category:   string(t.Category),
			ExpiryDate: t.ExpiryDate,
		})
	}
	return t, nil
}

func buildTicket(req IssueRequest, tmpl *catalog.TicketTemplate) (*Ticket, error) {
	start := DateOnly(req.StartDate)

	name := req.Name
	category := req.Category
	totalTaseok := req.TotalTaseokCount
	totalLesson := req.TotalLessonCount
	durationDays := req.DurationDays
	validityDays := req.ValidityDays
	price := req.Price

	if tmpl != nil {
		category = tmpl.Category
		totalTaseok = tmpl.TotalTaseokCount
		totalLesson = tmpl.TotalLessonCount
		durationDays = tmpl.DurationDays
		validityDays = tmpl.DefaultValidityDays
		if name == "" {
			name = tmpl.GenerateTicketName()
		}
		if price == nil {
			price = tmpl.Price
		}
	}

	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: ticket name is required", ErrValidation)
	}

	// Expiry is inclusive of the start day: a 30-day ticket starting on the
	// 1st expires on the 30th.
	var expiry *time.Time
	switch {
	case (category == catalog.CategoryPeriod || category == catalog.CategoryCombo) && durationDays != nil && *durationDays > 0:
		e := start.AddDate(0, 0, *durationDays-1)
		expiry = &e
	case (category == catalog.CategoryCount || category == catalog.CategoryCoupon) && validityDays != nil && *validityDays > 0:
		e := start.AddDate(0, 0, *validityDays-1)
		expiry = &e
	}

	t := &Ticket{
		MemberID:   req.MemberID,
		TemplateID: req.TemplateID,
		Name:       name,
		Category:   category,
		IssueDate:  DateOnly(time.Now().UTC()),
		StartDate:  start,
		ExpiryDate: expiry,
		ProID:      req.ProID,
		Price:      price,
		Memo:       req.Memo,
	}
	if totalTaseok != nil {
		total := *totalTaseok
		remaining := *totalTaseok
		t.TotalTaseokCount = &total
		t.RemainingTaseokCount = &remaining
	}
	if totalLesson != nil {
		total := *totalLesson
		remaining := *totalLesson
		t.TotalLessonCount = &total
		t.RemainingLessonCount = &remaining
	}
	return t, nil
}

// Delete removes a ticket with its holdings. A ticket still referenced by a
// scheduled booking cannot be deleted. Lesson counts the ticket contributed
// to the pooled credit are taken back, floored at zero.
func (s *Service) Delete(ctx context.Context, ticketID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t Ticket
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, ticketID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		var m member.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, t.MemberID).Error; err != nil {
			return err
		}

		if s.bookings != nil {
			has, err := s.bookings.HasScheduledForTicket(tx, ticketID)
			if err != nil {
				return err
			}
			if has {
				return ErrHasScheduledBooking
			}
		}

		if t.RemainingLessonCount != nil && *t.RemainingLessonCount > 0 {
			taken := *t.RemainingLessonCount
			m.RemainingLessonTotal -= taken
			if m.RemainingLessonTotal < 0 {
				m.RemainingLessonTotal = 0
			}
			if err := tx.Model(&member.Member{}).Where("id = ?", m.ID).
				Update("remaining_lesson_total", m.RemainingLessonTotal).Error; err != nil {
				return err
			}
			if err := AppendLedger(tx, LedgerEntry{
				MemberID: m.ID, TicketID: &t.ID, Kind: LedgerPoolDebit, Delta: -taken,
			}); err != nil {
				return err
			}
		}

		if err := tx.Where("ticket_id = ?", t.ID).Delete(&Holding{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&t).Error; err != nil {
			return err
		}
		return RecalculateMasterExpiry(tx, m.ID)
	})
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Ticket, error) {
	var t Ticket
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Service) ListByMember(ctx context.Context, memberID int64) ([]Ticket, error) {
	var tickets []Ticket
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("expiry_date IS NULL, expiry_date, id").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *Service) ListLedger(ctx context.Context, memberID int64) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RecalculateMasterExpiry rewrites the member's master expiry date as the
// latest non-nil expiry among their active tickets, or NULL when none
// qualify. Runs inside the caller's transaction: every mutation path that
// can change the active set calls this before committing.
func RecalculateMasterExpiry(tx *gorm.DB, memberID int64) error {
	var tickets []Ticket
	if err := tx.Where("member_id = ? AND is_active = ?", memberID, true).Find(&tickets).Error; err != nil {
		return err
	}
	var latest *time.Time
	for i := range tickets {
		if e := tickets[i].ExpiryDate; e != nil && (latest == nil || e.After(*latest)) {
			latest = e
		}
	}
	return tx.Model(&member.Member{}).Where("id = ?", memberID).
		Update("master_expiry_date", latest).Error
}
