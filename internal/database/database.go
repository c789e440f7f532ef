package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"swingbay/internal/domain/booking"
	"swingbay/internal/domain/catalog"
	"swingbay/internal/domain/member"
	"swingbay/internal/domain/ticket"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&member.Member{},
		&catalog.Booth{},
		&catalog.TicketTemplate{},
		&ticket.Ticket{},
		&ticket.Holding{},
		&ticket.LedgerEntry{},
		&booking.Booking{},
	)
}
