package member

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("member not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateRequest struct {
	Name  string
	Phone string
	Memo  string
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Member, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	m := &Member{
		Name:  req.Name,
		Phone: req.Phone,
		Memo:  req.Memo,
	}
	m.SetPhoneLast4()
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Member, error) {
	var m Member
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Search matches by name substring or the last four digits of the phone
// number, the two lookups the front desk actually uses.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]Member, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Model(&Member{})
	if query != "" {
		q = q.Where("name LIKE ? OR phone_last4 = ?", "%"+query+"%", query)
	}
	var members []Member
	if err := q.Order("name").Limit(limit).Offset(offset).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
