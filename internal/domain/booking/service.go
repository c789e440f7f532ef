package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"swingbay/internal/domain/catalog"
	"swingbay/internal/domain/member"
	"swingbay/internal/domain/ticket"
	"swingbay/internal/pkg/events"
)

// EventPublisher is satisfied by events.Publisher; nil disables emission.
type EventPublisher interface {
	BookingCreated(ctx context.Context, e events.BookingCreated) error
	BookingCancelled(ctx context.Context, e events.BookingCancelled) error
}

// Service is the reservation engine: it checks booth availability, selects
// the ticket that pays for the slot, debits it and creates the booking as
// one transaction, and runs the compensating credits on cancellation.
type Service struct {
	db  *gorm.DB
	pub EventPublisher
}

func NewService(db *gorm.DB, pub EventPublisher) *Service {
	return &Service{db: db, pub: pub}
}

type CreateRequest struct {
	MemberID  int64
	BoothID   int64
	ProID     *int64
	StartTime time.Time
	EndTime   time.Time
	Type      Type
	Memo      string
}

// IsBoothAvailable reports whether the booth can take [start, end). The
// booth must be administratively available and operational, and no other
// scheduled booking may overlap the half-open range; bookings that merely
// touch at a boundary do not conflict. excludeBookingID skips one booking,
// for edit flows.
func (s *Service) IsBoothAvailable(ctx context.Context, boothID int64, start, end time.Time, excludeBookingID *int64) (bool, error) {
	var ok bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		ok, err = boothFree(tx, boothID, start, end, excludeBookingID, false)
		return err
	})
	return ok, err
}

func boothFree(tx *gorm.DB, boothID int64, start, end time.Time, excludeBookingID *int64, lock bool) (bool, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var booth catalog.Booth
	if err := q.First(&booth, boothID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !booth.AcceptsBookings() {
		return false, nil
	}

	overlap := tx.Model(&Booking{}).
		Where("booth_id = ? AND status = ?", boothID, StatusScheduled).
		Where("end_time > ? AND start_time < ?", start, end)
	if excludeBookingID != nil {
		overlap = overlap.Where("id <> ?", *excludeBookingID)
	}
	var cnt int64
	if err := overlap.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt == 0, nil
}

// SelectForTaseok is the read-only preview of the taseok selection policy.
// It returns nil when no ticket qualifies.
func (s *Service) SelectForTaseok(ctx context.Context, memberID int64, at time.Time) (*ticket.Ticket, error) {
	return findTicketForTaseok(s.db.WithContext(ctx), memberID, at, false)
}

// SelectForLesson previews what would pay for a lesson at the given time:
// a coupon ticket, the pooled lesson credit, or nothing.
func (s *Service) SelectForLesson(ctx context.Context, memberID int64, at time.Time) (*ticket.Ticket, bool, error) {
	coupon, err := findCouponForLesson(s.db.WithContext(ctx), memberID, at, false)
	if err != nil {
		return nil, false, err
	}
	if coupon != nil {
		return coupon, false, nil
	}
	var m member.Member
	if err := s.db.WithContext(ctx).First(&m, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrMemberNotFound
		}
		return nil, false, err
	}
	return nil, m.RemainingLessonTotal > 0, nil
}

// CreateBooking reserves the slot and debits the entitlements that pay for
// it in one transaction: any error discards the booking and every debit.
// A coupon found for a lesson pays for both the taseok and the lesson side;
// a lesson drawn from the pooled credit still needs a separate taseok
// ticket. Coupons must not be spent on taseok-only bookings.
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (*Booking, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	if req.Type == TypeLesson && req.ProID == nil {
		return nil, fmt.Errorf("%w: lesson bookings need a pro", ErrValidation)
	}
	if req.Type != TypeLesson && req.Type != TypeTaseokOnly {
		return nil, fmt.Errorf("%w: unknown booking type %q", ErrValidation, req.Type)
	}

	var created *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		free, err := boothFree(tx, req.BoothID, req.StartTime, req.EndTime, nil, true)
		if err != nil {
			return err
		}
		if !free {
			return ErrSlotUnavailable
		}

		var m member.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, req.MemberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		var taseokTicket, lessonTicket *ticket.Ticket
		usePool := false

		switch req.Type {
		case TypeLesson:
			lessonTicket, err = findCouponForLesson(tx, m.ID, req.StartTime, true)
			if err != nil {
				return err
			}
			if lessonTicket != nil {
				// The coupon services the taseok debit of the same booking.
				taseokTicket = lessonTicket
			} else if m.RemainingLessonTotal > 0 {
				usePool = true
				taseokTicket, err = findTicketForTaseok(tx, m.ID, req.StartTime, true)
				if err != nil {
					return err
				}
				if taseokTicket == nil {
					return ErrNoTaseokTicket
				}
			} else {
				return ErrNoLessonCredit
			}
		case TypeTaseokOnly:
			taseokTicket, err = findTicketForTaseok(tx, m.ID, req.StartTime, true)
			if err != nil {
				return err
			}
			if taseokTicket == nil {
				return ErrNoTaseokTicket
			}
			if taseokTicket.Category == catalog.CategoryCoupon {
				return ErrWrongCategory
			}
		}

		b := &Booking{
			MemberID:        m.ID,
			BoothID:         req.BoothID,
			Type:            req.Type,
			Status:          StatusScheduled,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			DurationMinutes: int(req.EndTime.Sub(req.StartTime).Minutes()),
			Memo:            req.Memo,
		}
		if req.Type == TypeLesson {
			b.ProID = req.ProID
		}
		if taseokTicket != nil {
			b.UsedTaseokTicketID = &taseokTicket.ID
		}
		if lessonTicket != nil {
			b.UsedLessonTicketID = &lessonTicket.ID
		}
		if err := tx.Create(b).Error; err != nil {
			if isExclusionViolation(err) {
				return ErrSlotUnavailable
			}
			return err
		}

		// Debits. The selection above ran under the same locks, so a failing
		// debit means the store is inconsistent; abort the whole operation.
		if taseokTicket != nil && taseokTicket.RemainingTaseokCount != nil {
			if err := taseokTicket.DebitTaseok(); err != nil {
				log.Printf("booking: taseok debit failed after selection passed booking_member=%d ticket=%d: %v", m.ID, taseokTicket.ID, err)
				return fmt.Errorf("%w: taseok debit: %v", ErrInconsistentState, err)
			}
			if err := ticket.AppendLedger(tx, ticket.LedgerEntry{
				MemberID: m.ID, TicketID: &taseokTicket.ID, BookingID: &b.ID, Kind: ticket.LedgerTaseokDebit, Delta: -1,
			}); err != nil {
				return err
			}
		}
		if req.Type == TypeLesson {
			switch {
			case lessonTicket != nil:
				if err := lessonTicket.DebitLesson(); err != nil {
					log.Printf("booking: lesson debit failed after selection passed member=%d ticket=%d: %v", m.ID, lessonTicket.ID, err)
					return fmt.Errorf("%w: lesson debit: %v", ErrInconsistentState, err)
				}
				if err := ticket.AppendLedger(tx, ticket.LedgerEntry{
					MemberID: m.ID, TicketID: &lessonTicket.ID, BookingID: &b.ID, Kind: ticket.LedgerLessonDebit, Delta: -1,
				}); err != nil {
					return err
				}
			case usePool:
				if m.RemainingLessonTotal <= 0 {
					log.Printf("booking: pooled lesson credit exhausted after check passed member=%d", m.ID)
					return fmt.Errorf("%w: pooled lesson debit", ErrInconsistentState)
				}
				m.RemainingLessonTotal--
				if err := tx.Model(&member.Member{}).Where("id = ?", m.ID).
					Update("remaining_lesson_total", m.RemainingLessonTotal).Error; err != nil {
					return err
				}
				if err := ticket.AppendLedger(tx, ticket.LedgerEntry{
					MemberID: m.ID, BookingID: &b.ID, Kind: ticket.LedgerPoolDebit, Delta: -1,
				}); err != nil {
					return err
				}
			}
		}

		if err := saveMutatedTickets(tx, taseokTicket, lessonTicket); err != nil {
			return err
		}
		if err := ticket.RecalculateMasterExpiry(tx, m.ID); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.pub != nil {
		_ = s.pub.BookingCreated(ctx, events.BookingCreated{
			Header:    events.NewHeader(),
			BookingID: created.ID,
			MemberID:  created.MemberID,
			BoothID:   created.BoothID,
			Type:      string(created.Type),
			StartTime: created.StartTime,
			EndTime:   created.EndTime,
		})
	}
	return created, nil
}

// CancelBooking moves a scheduled booking to a cancelled status and credits
// back what it debited: the taseok ticket, and the lesson coupon or the
// pooled lesson credit. Credits are bounded by the ticket totals, so a
// concurrent double cancel cannot overfill a counter.
func (s *Service) CancelBooking(ctx context.Context, bookingID int64, byAdmin bool) (*Booking, error) {
	var cancelled *Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if b.Status != StatusScheduled {
			return fmt.Errorf("%w: status is %s", ErrNotCancellable, b.Status)
		}

		var m member.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, b.MemberID).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		if byAdmin {
			b.Status = StatusCancelledAdmin
		} else {
			b.Status = StatusCancelledUser
		}
		b.CancelledAt = &now

		var taseokTicket, lessonTicket *ticket.Ticket
		if b.UsedTaseokTicketID != nil {
			taseokTicket = &ticket.Ticket{}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(taseokTicket, *b.UsedTaseokTicketID).Error; err != nil {
				return err
			}
			if taseokTicket.CreditTaseok() {
				if err := ticket.AppendLedger(tx, ticket.LedgerEntry{
					MemberID: m.ID, TicketID: &taseokTicket.ID, BookingID: &b.ID, Kind: ticket.LedgerTaseokCredit, Delta: 1,
				}); err != nil {
					return err
				}
			}
		}
		if b.Type == TypeLesson {
			if b.UsedLessonTicketID != nil {
				if taseokTicket != nil && *b.UsedLessonTicketID == taseokTicket.ID {
					lessonTicket = taseokTicket
				} else {
					lessonTicket = &ticket.Ticket{}
					if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(lessonTicket, *b.UsedLessonTicketID).Error; err != nil {
						return err
					}
				}
				if lessonTicket.CreditLesson() {
					if err := ticket.AppendLedger(tx, ticket.LedgerEntry{
						MemberID: m.ID, TicketID: &lessonTicket.ID, BookingID: &b.ID, Kind: ticket.LedgerLessonCredit, Delta: 1,
					}); err != nil {
						return err
					}
				}
			} else {
				m.RemainingLessonTotal++
				if err := tx.Model(&member.Member{}).Where("id = ?", m.ID).
					Update("remaining_lesson_total", m.RemainingLessonTotal).Error; err != nil {
					return err
				}
				if err := ticket.AppendLedger(tx, ticket.LedgerEntry{
					MemberID: m.ID, BookingID: &b.ID, Kind: ticket.LedgerPoolCredit, Delta: 1,
				}); err != nil {
					return err
				}
			}
		}

		if err := saveMutatedTickets(tx, taseokTicket, lessonTicket); err != nil {
			return err
		}
		if err := ticket.RecalculateMasterExpiry(tx, m.ID); err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}
		cancelled = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.pub != nil {
		_ = s.pub.BookingCancelled(ctx, events.BookingCancelled{
			Header:    events.NewHeader(),
			BookingID: cancelled.ID,
			MemberID:  cancelled.MemberID,
			BoothID:   cancelled.BoothID,
			ByAdmin:   byAdmin,
		})
	}
	return cancelled, nil
}

// HasScheduledForTicket implements ticket.ScheduledBookingGuard: a ticket
// referenced by any scheduled booking must not be deleted.
func (s *Service) HasScheduledForTicket(tx *gorm.DB, ticketID int64) (bool, error) {
	var cnt int64
	err := tx.Model(&Booking{}).
		Where("status = ?", StatusScheduled).
		Where("used_taseok_ticket_id = ? OR used_lesson_ticket_id = ?", ticketID, ticketID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Service) ListByMember(ctx context.Context, memberID int64, limit, offset int) ([]Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var bookings []Booking
	err := s.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// BoothSchedule lists the scheduled bookings touching a single day on one
// booth, for the front-desk day view.
func (s *Service) BoothSchedule(ctx context.Context, boothID int64, day time.Time) ([]Booking, error) {
	from := ticket.DateOnly(day)
	to := from.AddDate(0, 0, 1)

	var bookings []Booking
	err := s.db.WithContext(ctx).
		Where("booth_id = ? AND status = ?", boothID, StatusScheduled).
		Where("end_time > ? AND start_time < ?", from, to).
		Order("start_time").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func saveMutatedTickets(tx *gorm.DB, tickets ...*ticket.Ticket) error {
	today := time.Now().UTC()
	saved := map[int64]bool{}
	for _, t := range tickets {
		if t == nil || saved[t.ID] {
			continue
		}
		t.RefreshStatus(today)
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		saved[t.ID] = true
	}
	return nil
}

// isExclusionViolation spots the postgres no-overlap constraint on bookings
// firing under concurrency; sqlite has no equivalent and relies on the booth
// row lock alone.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}
