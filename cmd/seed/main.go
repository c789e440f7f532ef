// Seeds a local database with booths, ticket templates and a demo member.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm/clause"

	"swingbay/internal/config"
	"swingbay/internal/database"
	"swingbay/internal/domain/catalog"
	"swingbay/internal/domain/member"
)

func intPtr(v int) *int { return &v }

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	booths := []catalog.Booth{
		{Name: "Bay 1", SystemType: catalog.SystemQED, IsAvailable: true, CurrentStatus: catalog.BoothAvailable},
		{Name: "Bay 2", SystemType: catalog.SystemQED, IsAvailable: true, CurrentStatus: catalog.BoothAvailable},
		{Name: "Bay 3", SystemType: catalog.SystemKakaoVX, IsAvailable: true, CurrentStatus: catalog.BoothAvailable},
		{Name: "Bay 4", SystemType: catalog.SystemKakaoVX, IsAvailable: false, CurrentStatus: catalog.BoothMaintenance, Memo: "projector under repair"},
	}
	for _, b := range booths {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&b).Error; err != nil {
			log.Fatal(err)
		}
	}

	templates := []catalog.TicketTemplate{
		{Name: "3 Month Pass", Category: catalog.CategoryPeriod, DurationDays: intPtr(90), Price: intPtr(450000), IsActive: true},
		{Name: "10 Round Pack", Category: catalog.CategoryCount, TotalTaseokCount: intPtr(10), DefaultValidityDays: intPtr(90), Price: intPtr(200000), IsActive: true},
		{Name: "Lesson Coupon x10", Category: catalog.CategoryCoupon, TotalTaseokCount: intPtr(10), TotalLessonCount: intPtr(10), DefaultValidityDays: intPtr(180), Price: intPtr(700000), IsActive: true},
		{Name: "Lesson Add-on x5", Category: catalog.CategoryLessonAdd, TotalLessonCount: intPtr(5), Price: intPtr(300000), IsActive: true},
		{Name: "3 Month Combo", Category: catalog.CategoryCombo, DurationDays: intPtr(90), TotalLessonCount: intPtr(12), Price: intPtr(900000), IsActive: true},
	}
	for _, t := range templates {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&t).Error; err != nil {
			log.Fatal(err)
		}
	}

	demo := member.Member{Name: "Demo Member", Phone: "010-1234-5678"}
	demo.SetPhoneLast4()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&demo).Error; err != nil {
		log.Fatal(err)
	}

	log.Println("seed complete")
}
