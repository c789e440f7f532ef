package ticket

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LedgerIssue        = "ISSUE"
	LedgerTaseokDebit  = "TASEOK_DEBIT"
	LedgerTaseokCredit = "TASEOK_CREDIT"
	LedgerLessonDebit  = "LESSON_DEBIT"
	LedgerLessonCredit = "LESSON_CREDIT"
	LedgerPoolDebit    = "POOL_DEBIT"
	LedgerPoolCredit   = "POOL_CREDIT"
)

// LedgerEntry records one counter mutation so every debit and credit is
// attributable to the member, ticket and booking that caused it. Entries are
// written inside the same transaction as the mutation and never deleted.
type LedgerEntry struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MemberID  int64     `gorm:"column:member_id;not null;index" json:"member_id"`
	TicketID  *int64    `gorm:"column:ticket_id;index" json:"ticket_id,omitempty"`
	BookingID *int64    `gorm:"column:booking_id;index" json:"booking_id,omitempty"`
	Kind      string    `gorm:"column:kind;size:16;not null;index" json:"kind"`
	Delta     int       `gorm:"column:delta;not null" json:"delta"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LedgerEntry) TableName() string { return "ticket_ledger" }

func (e *LedgerEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// AppendLedger writes a ledger row inside the caller's transaction.
func AppendLedger(tx *gorm.DB, e LedgerEntry) error {
	return tx.Create(&e).Error
}
