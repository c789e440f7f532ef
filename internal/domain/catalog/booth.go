package catalog

import "time"

type BoothSystemType string

const (
	SystemQED     BoothSystemType = "qed"
	SystemKakaoVX BoothSystemType = "kakao_vx"
)

type BoothStatus string

const (
	BoothAvailable   BoothStatus = "available"
	BoothOccupied    BoothStatus = "occupied"
	BoothBooked      BoothStatus = "booked"
	BoothOffline     BoothStatus = "offline"
	BoothMaintenance BoothStatus = "maintenance"
)

// Booth is a practice bay. IsAvailable is the administrative kill switch;
// CurrentStatus tracks the operational state. A booth accepts bookings only
// when IsAvailable is set and CurrentStatus is BoothAvailable.
type Booth struct {
	ID               int64           `gorm:"column:id;primaryKey" json:"id"`
	Name             string          `gorm:"column:name;uniqueIndex;not null" json:"name"`
	SystemType       BoothSystemType `gorm:"column:system_type;not null" json:"system_type"`
	// No column defaults: gorm drops zero-value fields that carry one from
	// the INSERT, so a booth created out of service would come back bookable.
	IsAvailable      bool            `gorm:"column:is_available;not null" json:"is_available"`
	CurrentStatus    BoothStatus     `gorm:"column:current_status;not null" json:"current_status"`
	LastStatusUpdate time.Time       `gorm:"column:last_status_update" json:"last_status_update"`
	Memo             string          `gorm:"column:memo;type:text" json:"memo,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Booth) TableName() string { return "booths" }

// AcceptsBookings reports whether the booth can take a new reservation.
func (b *Booth) AcceptsBookings() bool {
	return b.IsAvailable && b.CurrentStatus == BoothAvailable
}
