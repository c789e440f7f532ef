package holding

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"swingbay/internal/domain/ticket"
)

// Service manages suspension intervals on tickets. Every operation locks the
// owning ticket row, validates the interval, shifts the ticket's expiry by
// the holding's inclusive duration and recomputes the member's master expiry
// date — one transaction per call, nothing partially applied.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type AddRequest struct {
	TicketID  int64
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

type EditRequest struct {
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Add suspends the ticket over [start, end] and extends a bounded ticket's
// expiry by the suspension length.
func (s *Service) Add(ctx context.Context, req AddRequest) (*ticket.Holding, error) {
	var h *ticket.Holding
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTicket(tx, req.TicketID)
		if err != nil {
			return err
		}

		start, end := ticket.DateOnly(req.StartDate), ticket.DateOnly(req.EndDate)
		if err := validateInterval(tx, t, start, end, t.ExpiryDate, 0); err != nil {
			return err
		}

		duration := ticket.HoldingDuration(start, end)
		created := &ticket.Holding{
			TicketID:     t.ID,
			StartDate:    start,
			EndDate:      end,
			Reason:       req.Reason,
			DurationDays: duration,
		}
		if err := tx.Create(created).Error; err != nil {
			return err
		}

		if err := shiftExpiry(tx, t, duration); err != nil {
			return err
		}
		if err := ticket.RecalculateMasterExpiry(tx, t.MemberID); err != nil {
			return err
		}
		h = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Edit replaces a holding's interval. The ticket's stored expiry already
// embeds the old duration, so the old extension is reversed first, the new
// interval is validated against that base expiry, and the new extension is
// applied — atomically, as if the holding had been created with the new
// interval from the start.
func (s *Service) Edit(ctx context.Context, holdingID int64, req EditRequest) (*ticket.Holding, error) {
	var h *ticket.Holding
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ticket.Holding
		if err := tx.First(&existing, holdingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldingNotFound
			}
			return err
		}
		t, err := lockTicket(tx, existing.TicketID)
		if err != nil {
			return err
		}

		var baseExpiry *time.Time
		if t.ExpiryDate != nil {
			b := t.ExpiryDate.AddDate(0, 0, -existing.DurationDays)
			baseExpiry = &b
		}

		start, end := ticket.DateOnly(req.StartDate), ticket.DateOnly(req.EndDate)
		if err := validateInterval(tx, t, start, end, baseExpiry, existing.ID); err != nil {
			return err
		}

		oldDuration := existing.DurationDays
		newDuration := ticket.HoldingDuration(start, end)
		existing.StartDate = start
		existing.EndDate = end
		existing.Reason = req.Reason
		existing.DurationDays = newDuration
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		if err := shiftExpiry(tx, t, newDuration-oldDuration); err != nil {
			return err
		}
		if err := ticket.RecalculateMasterExpiry(tx, t.MemberID); err != nil {
			return err
		}
		h = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes a holding and takes its extension back off the ticket's
// expiry. The reversal may move the expiry before the issuance window; that
// is allowed, since the original bounds are independent of layered holdings.
func (s *Service) Delete(ctx context.Context, holdingID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing ticket.Holding
		if err := tx.First(&existing, holdingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldingNotFound
			}
			return err
		}
		t, err := lockTicket(tx, existing.TicketID)
		if err != nil {
			return err
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		if err := shiftExpiry(tx, t, -existing.DurationDays); err != nil {
			return err
		}
		return ticket.RecalculateMasterExpiry(tx, t.MemberID)
	})
}

func (s *Service) ListByTicket(ctx context.Context, ticketID int64) ([]ticket.Holding, error) {
	var holdings []ticket.Holding
	err := s.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("start_date").
		Find(&holdings).Error
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

func lockTicket(tx *gorm.DB, id int64) (*ticket.Ticket, error) {
	var t ticket.Ticket
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// validateInterval applies the holding invariants: a well-formed range,
// start within the ticket's window, end no later than the given expiry bound
// (the expiry before this holding's own extension), and no overlap with any
// other holding on the ticket (closed intervals).
func validateInterval(tx *gorm.DB, t *ticket.Ticket, start, end time.Time, expiryBound *time.Time, excludeID int64) error {
	if end.Before(start) {
		return ErrInvalidRange
	}
	if start.Before(ticket.DateOnly(t.StartDate)) {
		return ErrOutOfBounds
	}
	if expiryBound != nil && end.After(*expiryBound) {
		return ErrOutOfBounds
	}
	if ticket.HoldingDuration(start, end) <= 0 {
		return ErrInvalidRange
	}

	q := tx.Where("ticket_id = ? AND end_date >= ? AND start_date <= ?", t.ID, start, end)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var conflicting ticket.Holding
	err := q.First(&conflicting).Error
	if err == nil {
		return &ConflictError{HoldingID: conflicting.ID}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// shiftExpiry moves a bounded ticket's expiry by delta days and refreshes
// the derived status flags, since the shift can flip is_expired either way.
func shiftExpiry(tx *gorm.DB, t *ticket.Ticket, deltaDays int) error {
	if t.ExpiryDate == nil || deltaDays == 0 {
		return nil
	}
	e := t.ExpiryDate.AddDate(0, 0, deltaDays)
	t.ExpiryDate = &e
	t.RefreshStatus(time.Now().UTC())
	return tx.Save(t).Error
}
