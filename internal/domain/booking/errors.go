package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrMemberNotFound    = errors.New("member not found")
	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrNoTaseokTicket    = errors.New("no valid taseok ticket")
	ErrNoLessonCredit    = errors.New("no lesson coupon or pooled credit")
	ErrWrongCategory     = errors.New("coupon tickets cannot pay for taseok-only bookings")
	ErrNotCancellable    = errors.New("booking cannot be cancelled in its current status")
	ErrInconsistentState = errors.New("inconsistent entitlement state")
)
