package ticket

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrTemplateNotFound    = errors.New("ticket template not found")
	ErrNotCountLimited     = errors.New("ticket is not count-limited")
	ErrNoRemainingCount    = errors.New("no remaining count")
	ErrHasScheduledBooking = errors.New("ticket has a scheduled booking")
)
