package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// ProductRepository resolves catalog data owned by the catalog service.
type ProductRepository interface {
	Lookup(ctx context.Context, ids []int64) (map[int64]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	MarkListed(ctx context.Context, id int64, rate decimal.Decimal) (*model.Product, error)
}
