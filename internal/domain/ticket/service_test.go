package ticket

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"swingbay/internal/domain/catalog"
	"swingbay/internal/domain/member"
)

type stubGuard struct {
	scheduled bool
}

func (g stubGuard) HasScheduledForTicket(tx *gorm.DB, ticketID int64) (bool, error) {
	return g.scheduled, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ticket_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	err = db.AutoMigrate(&member.Member{}, &catalog.TicketTemplate{}, &Ticket{}, &Holding{}, &LedgerEntry{})
	if err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func createMember(t *testing.T, db *gorm.DB) *member.Member {
	t.Helper()
	m := &member.Member{Name: "Test Member"}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("failed to create member: %v", err)
	}
	return m
}

func TestIssuePeriodTicketExpiryInclusive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	tk, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:     m.ID,
		Name:         "3 Month Pass",
		Category:     catalog.CategoryPeriod,
		StartDate:    date(2026, 3, 1),
		DurationDays: intPtr(30),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	// 30 days starting March 1 run through March 30.
	want := date(2026, 3, 30)
	if tk.ExpiryDate == nil || !tk.ExpiryDate.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, tk.ExpiryDate)
	}
	if !tk.IsActive {
		t.Fatal("freshly issued future-window ticket should be active")
	}
}

func TestIssueBackdatedTicketStoredInactive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	// Window ended long ago: the issued ticket must be expired and inactive,
	// both in the returned value and in the stored row.
	tk, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:     m.ID,
		Name:         "backdated",
		Category:     catalog.CategoryPeriod,
		StartDate:    date(2020, 1, 1),
		DurationDays: intPtr(10),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if tk.IsActive || !tk.IsExpired {
		t.Fatalf("returned ticket should be expired and inactive: active=%v expired=%v", tk.IsActive, tk.IsExpired)
	}

	var stored Ticket
	if err := db.First(&stored, tk.ID).Error; err != nil {
		t.Fatalf("failed to reload ticket: %v", err)
	}
	if stored.IsActive || !stored.IsExpired {
		t.Fatalf("stored ticket should be expired and inactive: active=%v expired=%v", stored.IsActive, stored.IsExpired)
	}

	// An expired ticket never enters the master-expiry aggregate.
	var got member.Member
	if err := db.First(&got, m.ID).Error; err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	if got.MasterExpiryDate != nil {
		t.Fatalf("expired ticket must not set master expiry, got %v", got.MasterExpiryDate)
	}
}

func TestIssueCountTicketInitializesCounters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	tk, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:         m.ID,
		Name:             "10 Round Pack",
		Category:         catalog.CategoryCount,
		StartDate:        date(2026, 3, 1),
		TotalTaseokCount: intPtr(10),
		ValidityDays:     intPtr(90),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if tk.RemainingTaseokCount == nil || *tk.RemainingTaseokCount != 10 {
		t.Fatalf("expected remaining taseok 10, got %v", tk.RemainingTaseokCount)
	}
	want := date(2026, 5, 29)
	if tk.ExpiryDate == nil || !tk.ExpiryDate.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, tk.ExpiryDate)
	}
}

func TestIssueFromTemplate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	tmpl := &catalog.TicketTemplate{
		Name:                "Lesson Coupon x10",
		Category:            catalog.CategoryCoupon,
		TotalTaseokCount:    intPtr(10),
		TotalLessonCount:    intPtr(10),
		DefaultValidityDays: intPtr(180),
		IsActive:            true,
	}
	if err := db.Create(tmpl).Error; err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	tk, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:   m.ID,
		TemplateID: &tmpl.ID,
		StartDate:  date(2026, 3, 1),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if tk.Category != catalog.CategoryCoupon {
		t.Fatalf("expected category from template, got %s", tk.Category)
	}
	if tk.Name == "" {
		t.Fatal("name should be generated from the template")
	}
	if tk.RemainingLessonCount == nil || *tk.RemainingLessonCount != 10 {
		t.Fatalf("expected remaining lessons 10, got %v", tk.RemainingLessonCount)
	}
}

func TestIssueAccruesPooledLessonCredit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	_, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:         m.ID,
		Name:             "Lesson Add-on x5",
		Category:         catalog.CategoryLessonAdd,
		StartDate:        date(2026, 3, 1),
		TotalLessonCount: intPtr(5),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	var got member.Member
	if err := db.First(&got, m.ID).Error; err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	if got.RemainingLessonTotal != 5 {
		t.Fatalf("expected pooled lesson credit 5, got %d", got.RemainingLessonTotal)
	}
}

func TestIssueUpdatesMasterExpiry(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	issue := func(name string, duration int) {
		t.Helper()
		_, err := svc.Issue(context.Background(), IssueRequest{
			MemberID:     m.ID,
			Name:         name,
			Category:     catalog.CategoryPeriod,
			StartDate:    date(2026, 3, 1),
			DurationDays: intPtr(duration),
		})
		if err != nil {
			t.Fatalf("Issue returned error: %v", err)
		}
	}
	issue("short", 30)
	issue("long", 90)

	var got member.Member
	if err := db.First(&got, m.ID).Error; err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	want := date(2026, 5, 29)
	if got.MasterExpiryDate == nil || !got.MasterExpiryDate.Equal(want) {
		t.Fatalf("expected master expiry %v, got %v", want, got.MasterExpiryDate)
	}
}

func TestIssueValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	_, err := svc.Issue(context.Background(), IssueRequest{MemberID: m.ID, Name: "x", Category: "bogus", StartDate: date(2026, 1, 1)})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown category, got %v", err)
	}

	_, err = svc.Issue(context.Background(), IssueRequest{MemberID: m.ID, Name: "x", Category: catalog.CategoryPeriod})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing start date, got %v", err)
	}

	_, err = svc.Issue(context.Background(), IssueRequest{MemberID: 9999, Name: "x", Category: catalog.CategoryPeriod, StartDate: date(2026, 1, 1)})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestDeleteRemovesTicketHoldingsAndPoolCredit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	tk, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:         m.ID,
		Name:             "combo",
		Category:         catalog.CategoryCombo,
		StartDate:        date(2026, 3, 1),
		DurationDays:     intPtr(90),
		TotalLessonCount: intPtr(5),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if err := db.Create(&Holding{TicketID: tk.ID, StartDate: date(2026, 3, 10), EndDate: date(2026, 3, 12), DurationDays: 3}).Error; err != nil {
		t.Fatalf("failed to create holding: %v", err)
	}

	if err := svc.Delete(context.Background(), tk.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var cnt int64
	db.Model(&Ticket{}).Where("id = ?", tk.ID).Count(&cnt)
	if cnt != 0 {
		t.Fatal("ticket should be gone")
	}
	db.Model(&Holding{}).Where("ticket_id = ?", tk.ID).Count(&cnt)
	if cnt != 0 {
		t.Fatal("holdings should be deleted with the ticket")
	}

	var got member.Member
	if err := db.First(&got, m.ID).Error; err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	if got.RemainingLessonTotal != 0 {
		t.Fatalf("pooled credit should be taken back, got %d", got.RemainingLessonTotal)
	}
	if got.MasterExpiryDate != nil {
		t.Fatalf("master expiry should be cleared, got %v", got.MasterExpiryDate)
	}
}

func TestDeleteBlockedByScheduledBooking(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{scheduled: true}, nil)
	m := createMember(t, db)

	tk, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:     m.ID,
		Name:         "pass",
		Category:     catalog.CategoryPeriod,
		StartDate:    date(2026, 3, 1),
		DurationDays: intPtr(30),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), tk.ID); !errors.Is(err, ErrHasScheduledBooking) {
		t.Fatalf("expected ErrHasScheduledBooking, got %v", err)
	}

	var cnt int64
	db.Model(&Ticket{}).Where("id = ?", tk.ID).Count(&cnt)
	if cnt != 1 {
		t.Fatal("blocked delete must leave the ticket in place")
	}
}

func TestDeletePoolCreditFlooredAtZero(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	tk, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:         m.ID,
		Name:             "Lesson Add-on x5",
		Category:         catalog.CategoryLessonAdd,
		StartDate:        date(2026, 3, 1),
		TotalLessonCount: intPtr(5),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// Pool already spent below what the ticket contributed.
	if err := db.Model(&member.Member{}).Where("id = ?", m.ID).Update("remaining_lesson_total", 2).Error; err != nil {
		t.Fatalf("failed to update member: %v", err)
	}

	if err := svc.Delete(context.Background(), tk.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	var got member.Member
	if err := db.First(&got, m.ID).Error; err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	if got.RemainingLessonTotal != 0 {
		t.Fatalf("pool should floor at zero, got %d", got.RemainingLessonTotal)
	}
}

func TestRecalculateMasterExpiryIgnoresInactive(t *testing.T) {
	db := setupTestDB(t)
	m := createMember(t, db)

	past := date(2020, 1, 31)
	future := date(2027, 1, 31)
	tickets := []Ticket{
		{MemberID: m.ID, Name: "expired", Category: catalog.CategoryPeriod, StartDate: date(2020, 1, 1), ExpiryDate: &past, IsActive: false, IsExpired: true},
		{MemberID: m.ID, Name: "active", Category: catalog.CategoryPeriod, StartDate: date(2026, 1, 1), ExpiryDate: &future, IsActive: true},
	}
	for i := range tickets {
		if err := db.Create(&tickets[i]).Error; err != nil {
			t.Fatalf("failed to create ticket: %v", err)
		}
	}

	if err := RecalculateMasterExpiry(db, m.ID); err != nil {
		t.Fatalf("RecalculateMasterExpiry returned error: %v", err)
	}
	var got member.Member
	if err := db.First(&got, m.ID).Error; err != nil {
		t.Fatalf("failed to reload member: %v", err)
	}
	if got.MasterExpiryDate == nil || !got.MasterExpiryDate.Equal(future) {
		t.Fatalf("expected master expiry %v, got %v", future, got.MasterExpiryDate)
	}
}

func TestLedgerRecordsIssueAndPoolCredit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, stubGuard{}, nil)
	m := createMember(t, db)

	_, err := svc.Issue(context.Background(), IssueRequest{
		MemberID:         m.ID,
		Name:             "combo",
		Category:         catalog.CategoryCombo,
		StartDate:        date(2026, 3, 1),
		DurationDays:     intPtr(90),
		TotalLessonCount: intPtr(12),
	})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	entries, err := svc.ListLedger(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("ListLedger returned error: %v", err)
	}
	kinds := map[string]bool{}
	for _, e := range entries {
		kinds[e.Kind] = true
		if e.ID.String() == "00000000-0000-0000-0000-000000000000" {
			t.Fatal("ledger entry should get a uuid on create")
		}
	}
	if !kinds[LedgerIssue] || !kinds[LedgerPoolCredit] {
		t.Fatalf("expected issue and pool credit entries, got %v", kinds)
	}
}
