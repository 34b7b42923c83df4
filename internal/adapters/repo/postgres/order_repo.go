package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/textilua/promoshop/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Save(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	var list []domain.Order
	err := q.Order("created_at desc").Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OrderRepo) MarkNotified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).UpdateColumn("notified", true).Error
}
