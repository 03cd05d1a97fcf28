package repo

import (
	"context"

	"github.com/SaponinRacer/Market-Making/pkg/market/model"
)

type IFillEvent interface {
	Create(ctx context.Context, record *model.FillEvent) (*model.FillEvent, error)
	BulkCreate(ctx context.Context, records []*model.FillEvent) ([]*model.FillEvent, error)
	ListByPair(ctx context.Context, pair string, limit int) ([]*model.FillEvent, error)
}
