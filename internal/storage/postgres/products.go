package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
)

const productColumns = `id, artist_id, title, price::text, commission_rate::text, listed`

type productListedPayload struct {
	ProductID      int64  `json:"product_id"`
	ArtistID       int64  `json:"artist_id"`
	CommissionRate string `json:"commission_rate"`
}

func (r *productRepository) Lookup(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	products := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := r.storage.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[product.ID] = *product
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := scanProduct(r.storage.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// MarkListed stores the commission rate frozen for the product and publishes it.
func (r *productRepository) MarkListed(ctx context.Context, id int64, rate decimal.Decimal) (*model.Product, error) {
	var listed *model.Product
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		product, err := scanProduct(tx.QueryRow(ctx, `
            UPDATE products SET commission_rate = $1, listed = TRUE
            WHERE id = $2
            RETURNING `+productColumns, rate.String(), id))
		if errors.Is(err, pgx.ErrNoRows) {
			return domainErrors.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("list product: %w", err)
		}

		if err := enqueue(ctx, tx, model.EventProductListed, strconv.FormatInt(id, 10), productListedPayload{
			ProductID:      product.ID,
			ArtistID:       product.ArtistID,
			CommissionRate: rate.StringFixed(model.MoneyPlaces),
		}); err != nil {
			return err
		}

		listed = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listed, nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		product model.Product
		price   string
		rate    *string
	)
	if err := row.Scan(&product.ID, &product.ArtistID, &product.Title, &price, &rate, &product.Listed); err != nil {
		return nil, err
	}
	parsedPrice, err := parseMoney(price)
	if err != nil {
		return nil, err
	}
	parsedRate, err := parseRate(rate)
	if err != nil {
		return nil, err
	}
	product.Price = parsedPrice
	product.CommissionRate = parsedRate
	return &product, nil
}
