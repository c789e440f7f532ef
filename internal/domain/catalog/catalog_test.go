package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func intPtr(v int) *int { return &v }

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&Booth{}, &TicketTemplate{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewRepository(db)
}

func TestAcceptsBookings(t *testing.T) {
	cases := []struct {
		name   string
		booth  Booth
		expect bool
	}{
		{"available", Booth{IsAvailable: true, CurrentStatus: BoothAvailable}, true},
		{"admin disabled", Booth{IsAvailable: false, CurrentStatus: BoothAvailable}, false},
		{"occupied", Booth{IsAvailable: true, CurrentStatus: BoothOccupied}, false},
		{"maintenance", Booth{IsAvailable: true, CurrentStatus: BoothMaintenance}, false},
		{"offline", Booth{IsAvailable: true, CurrentStatus: BoothOffline}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.booth.AcceptsBookings(); got != tc.expect {
				t.Fatalf("expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func TestSetBoothStatus(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	b := &Booth{Name: "Bay 1", SystemType: SystemQED, IsAvailable: true, CurrentStatus: BoothAvailable}
	if err := repo.db.Create(b).Error; err != nil {
		t.Fatalf("failed to create booth: %v", err)
	}

	updated, err := repo.SetBoothStatus(ctx, b.ID, BoothMaintenance)
	if err != nil {
		t.Fatalf("SetBoothStatus returned error: %v", err)
	}
	if updated.CurrentStatus != BoothMaintenance {
		t.Fatalf("expected maintenance, got %s", updated.CurrentStatus)
	}
	if updated.LastStatusUpdate.IsZero() {
		t.Fatal("expected LastStatusUpdate to be set")
	}

	if _, err := repo.SetBoothStatus(ctx, 404, BoothAvailable); !errors.Is(err, ErrBoothNotFound) {
		t.Fatalf("expected ErrBoothNotFound, got %v", err)
	}
}

func TestOutOfServiceBoothStoredAsIs(t *testing.T) {
	repo := setupTestRepo(t)

	b := &Booth{Name: "Down Bay", SystemType: SystemKakaoVX, IsAvailable: false, CurrentStatus: BoothMaintenance}
	if err := repo.db.Create(b).Error; err != nil {
		t.Fatalf("failed to create booth: %v", err)
	}

	got, err := repo.GetBooth(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetBooth returned error: %v", err)
	}
	if got.IsAvailable {
		t.Fatal("booth created out of service must stay out of service")
	}
	if got.AcceptsBookings() {
		t.Fatal("out-of-service booth must not accept bookings")
	}
}

func TestListActiveTemplates(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	templates := []TicketTemplate{
		{Name: "Active Pass", Category: CategoryPeriod, DurationDays: intPtr(90), IsActive: true},
		{Name: "Retired Pack", Category: CategoryCount, TotalTaseokCount: intPtr(10), IsActive: false},
	}
	for i := range templates {
		if err := repo.db.Create(&templates[i]).Error; err != nil {
			t.Fatalf("failed to create template: %v", err)
		}
	}

	got, err := repo.ListActiveTemplates(ctx)
	if err != nil {
		t.Fatalf("ListActiveTemplates returned error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Active Pass" {
		t.Fatalf("expected only the active template, got %+v", got)
	}
}

func TestGenerateTicketName(t *testing.T) {
	cases := []struct {
		name string
		tmpl TicketTemplate
		want string
	}{
		{
			"period months",
			TicketTemplate{Name: "Pass", Category: CategoryPeriod, DurationDays: intPtr(90)},
			"Pass (3 mo)",
		},
		{
			"count rounds",
			TicketTemplate{Name: "Pack", Category: CategoryCount, TotalTaseokCount: intPtr(10)},
			"Pack (10 rounds)",
		},
		{
			"lesson add",
			TicketTemplate{Name: "Add-on", Category: CategoryLessonAdd, TotalLessonCount: intPtr(5)},
			"Add-on (+5 lessons)",
		},
		{
			"no details",
			TicketTemplate{Name: "Misc", Category: CategoryPeriod},
			"Misc",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tmpl.GenerateTicketName(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestTicketCategoryValid(t *testing.T) {
	for _, c := range []TicketCategory{CategoryPeriod, CategoryCount, CategoryCoupon, CategoryLessonAdd, CategoryCombo} {
		if !c.Valid() {
			t.Fatalf("category %q should be valid", c)
		}
	}
	if TicketCategory("bogus").Valid() {
		t.Fatal("unknown category should be invalid")
	}
}
