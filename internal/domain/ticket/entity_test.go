package ticket

import (
	"errors"
	"testing"
	"time"

	"swingbay/internal/domain/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestCoversWindow(t *testing.T) {
	expiry := date(2026, 3, 31)
	tk := &Ticket{StartDate: date(2026, 3, 1), ExpiryDate: &expiry}

	if !tk.covers(date(2026, 3, 1)) {
		t.Fatal("start day should be covered")
	}
	if !tk.covers(date(2026, 3, 31)) {
		t.Fatal("expiry day should be covered (inclusive)")
	}
	if tk.covers(date(2026, 2, 28)) {
		t.Fatal("day before start should not be covered")
	}
	if tk.covers(date(2026, 4, 1)) {
		t.Fatal("day after expiry should not be covered")
	}
}

func TestCoversUnboundedExpiry(t *testing.T) {
	tk := &Ticket{StartDate: date(2026, 1, 1)}
	if !tk.covers(date(2030, 12, 31)) {
		t.Fatal("nil expiry should cover any day at or after start")
	}
}

func TestRefreshStatusExpiry(t *testing.T) {
	expiry := date(2026, 3, 31)
	tk := &Ticket{StartDate: date(2026, 3, 1), ExpiryDate: &expiry}

	tk.RefreshStatus(date(2026, 3, 31))
	if tk.IsExpired || !tk.IsActive {
		t.Fatalf("ticket should still be active on expiry day: expired=%v active=%v", tk.IsExpired, tk.IsActive)
	}

	tk.RefreshStatus(date(2026, 4, 1))
	if !tk.IsExpired || tk.IsActive {
		t.Fatalf("ticket should be expired the day after expiry: expired=%v active=%v", tk.IsExpired, tk.IsActive)
	}
}

func TestRefreshStatusUsedUp(t *testing.T) {
	tk := &Ticket{
		Category:             catalog.CategoryCount,
		StartDate:            date(2026, 1, 1),
		TotalTaseokCount:     intPtr(2),
		RemainingTaseokCount: intPtr(1),
	}
	tk.RefreshStatus(date(2026, 1, 2))
	if tk.IsUsedUp {
		t.Fatal("ticket with remaining count should not be used up")
	}

	*tk.RemainingTaseokCount = 0
	tk.RefreshStatus(date(2026, 1, 2))
	if !tk.IsUsedUp || tk.IsActive {
		t.Fatalf("exhausted ticket should be used up and inactive: usedUp=%v active=%v", tk.IsUsedUp, tk.IsActive)
	}
}

func TestCouponUsedUpNeedsBothCounters(t *testing.T) {
	tk := &Ticket{
		Category:             catalog.CategoryCoupon,
		StartDate:            date(2026, 1, 1),
		TotalTaseokCount:     intPtr(1),
		RemainingTaseokCount: intPtr(0),
		TotalLessonCount:     intPtr(1),
		RemainingLessonCount: intPtr(1),
	}
	tk.RefreshStatus(date(2026, 1, 2))
	if tk.IsUsedUp {
		t.Fatal("coupon with lessons left should not be used up")
	}

	*tk.RemainingLessonCount = 0
	tk.RefreshStatus(date(2026, 1, 2))
	if !tk.IsUsedUp {
		t.Fatal("coupon with both counters at zero should be used up")
	}
}

func TestPeriodTicketNeverUsedUp(t *testing.T) {
	tk := &Ticket{Category: catalog.CategoryPeriod, StartDate: date(2026, 1, 1)}
	tk.RefreshStatus(date(2026, 6, 1))
	if tk.IsUsedUp {
		t.Fatal("period ticket has no counters and can never be used up")
	}
}

func TestDebitTaseok(t *testing.T) {
	tk := &Ticket{TotalTaseokCount: intPtr(1), RemainingTaseokCount: intPtr(1)}

	if err := tk.DebitTaseok(); err != nil {
		t.Fatalf("debit returned error: %v", err)
	}
	if *tk.RemainingTaseokCount != 0 {
		t.Fatalf("expected remaining 0, got %d", *tk.RemainingTaseokCount)
	}
	if err := tk.DebitTaseok(); !errors.Is(err, ErrNoRemainingCount) {
		t.Fatalf("expected ErrNoRemainingCount, got %v", err)
	}
}

func TestDebitTaseokOnPeriodTicket(t *testing.T) {
	tk := &Ticket{}
	if err := tk.DebitTaseok(); !errors.Is(err, ErrNotCountLimited) {
		t.Fatalf("expected ErrNotCountLimited, got %v", err)
	}
}

func TestCreditTaseokBoundedByTotal(t *testing.T) {
	tk := &Ticket{TotalTaseokCount: intPtr(2), RemainingTaseokCount: intPtr(1)}

	if !tk.CreditTaseok() {
		t.Fatal("credit below total should apply")
	}
	if tk.CreditTaseok() {
		t.Fatal("credit at total should be a no-op")
	}
	if *tk.RemainingTaseokCount != 2 {
		t.Fatalf("expected remaining 2, got %d", *tk.RemainingTaseokCount)
	}
}

func TestCreditTaseokOnPeriodTicket(t *testing.T) {
	tk := &Ticket{}
	if tk.CreditTaseok() {
		t.Fatal("uncounted ticket should not accept credits")
	}
}

func TestHoldingDuration(t *testing.T) {
	if got := HoldingDuration(date(2026, 1, 10), date(2026, 1, 12)); got != 3 {
		t.Fatalf("expected 3 inclusive days, got %d", got)
	}
	if got := HoldingDuration(date(2026, 1, 10), date(2026, 1, 10)); got != 1 {
		t.Fatalf("single-day holding should count 1, got %d", got)
	}
	if got := HoldingDuration(date(2026, 1, 12), date(2026, 1, 10)); got != 0 {
		t.Fatalf("inverted interval should count 0, got %d", got)
	}
}
