package repo

import (
	"context"

	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	"gorm.io/gorm"
)

type FillEventSQLRepo struct {
	db *gorm.DB
}

func NewFillEventSQLRepo(db *gorm.DB) *FillEventSQLRepo {
	return &FillEventSQLRepo{
		db: db,
	}
}

func (s *FillEventSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *FillEventSQLRepo) Create(ctx context.Context, record *model.FillEvent) (*model.FillEvent, error) {
	return record, s.dbWithContext(ctx).Create(record).Error
}

func (s *FillEventSQLRepo) BulkCreate(ctx context.Context, records []*model.FillEvent) ([]*model.FillEvent, error) {
	return records, s.dbWithContext(ctx).Create(records).Error
}

func (s *FillEventSQLRepo) ListByPair(ctx context.Context, pair string, limit int) ([]*model.FillEvent, error) {
	var out []*model.FillEvent
	q := s.dbWithContext(ctx).Where("pair = ?", pair).Order("timestamp desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}
