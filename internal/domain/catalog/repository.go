package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBoothNotFound    = errors.New("booth not found")
	ErrTemplateNotFound = errors.New("ticket template not found")
)

// Repository serves the read-mostly booth directory and template catalog.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetBooth(ctx context.Context, id int64) (*Booth, error) {
	var b Booth
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoothNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) ListBooths(ctx context.Context) ([]Booth, error) {
	var booths []Booth
	if err := r.db.WithContext(ctx).Order("name").Find(&booths).Error; err != nil {
		return nil, err
	}
	return booths, nil
}

// SetBoothStatus flips the operational status, e.g. when a bay goes down for
// maintenance. Existing scheduled bookings are untouched.
func (r *Repository) SetBoothStatus(ctx context.Context, id int64, status BoothStatus) (*Booth, error) {
	var b Booth
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoothNotFound
		}
		return nil, err
	}
	b.CurrentStatus = status
	b.LastStatusUpdate = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) GetTemplate(ctx context.Context, id int64) (*TicketTemplate, error) {
	var t TicketTemplate
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ListActiveTemplates(ctx context.Context) ([]TicketTemplate, error) {
	var templates []TicketTemplate
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}
