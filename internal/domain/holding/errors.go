package holding

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange    = errors.New("invalid holding range")
	ErrOutOfBounds     = errors.New("holding out of ticket bounds")
	ErrOverlapConflict = errors.New("holding overlap conflict")
	ErrHoldingNotFound = errors.New("holding not found")
	ErrTicketNotFound  = errors.New("ticket not found")
)

// ConflictError names the holding a new interval collides with. It matches
// ErrOverlapConflict under errors.Is so handlers can branch on the kind and
// still surface the conflicting id.
type ConflictError struct {
	HoldingID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("interval overlaps holding %d", e.HoldingID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrOverlapConflict
}
