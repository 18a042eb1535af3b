package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
)

func productRows() *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{"id", "artist_id", "title", "price", "commission_rate", "listed"})
}

func TestProductRepositoryLookup(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	products, err := repo.Lookup(context.Background(), nil)
	if err != nil || len(products) != 0 {
		t.Fatalf("expected empty lookup without query, got %v err=%v", products, err)
	}

	rate := "20.00"
	mock.ExpectQuery("FROM products WHERE id = ANY").WithArgs([]int64{100, 200}).WillReturnRows(
		productRows().
			AddRow(int64(100), int64(10), "Vase", "50.00", &rate, true).
			AddRow(int64(200), int64(11), "Print", "15.50", nil, false))
	products, err = repo.Lookup(context.Background(), []int64{100, 200})
	if err != nil || len(products) != 2 {
		t.Fatalf("unexpected result: %v err=%v", products, err)
	}
	if !products[200].Price.Equal(decimal.RequireFromString("15.5")) || products[200].CommissionRate != nil {
		t.Fatalf("unexpected product: %+v", products[200])
	}

	mock.ExpectQuery("FROM products WHERE id = ANY").WithArgs([]int64{1}).WillReturnError(errors.New("query"))
	if _, err := repo.Lookup(context.Background(), []int64{1}); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM products WHERE id = ANY").WithArgs([]int64{2}).WillReturnRows(
		productRows().AddRow(int64(2), int64(10), "Bad", "n/a", nil, true))
	if _, err := repo.Lookup(context.Background(), []int64{2}); err == nil {
		t.Fatal("expected parse error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	mock.ExpectQuery("FROM products WHERE id = ").WithArgs(int64(100)).WillReturnRows(
		productRows().AddRow(int64(100), int64(10), "Vase", "50.00", nil, false))
	product, err := repo.Get(context.Background(), 100)
	if err != nil || product.Title != "Vase" || product.Listed {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}

	mock.ExpectQuery("FROM products WHERE id = ").WithArgs(int64(101)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Get(context.Background(), 101); !errors.Is(err, domainErrors.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestProductRepositoryMarkListed(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	rate := "18"
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE products SET commission_rate").WithArgs("18", int64(100)).WillReturnRows(
		productRows().AddRow(int64(100), int64(10), "Vase", "50.00", &rate, true))
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(pgxmockv3.AnyArg(), "100", "product.listed", pgxmockv3.AnyArg(), pgxmockv3.AnyArg()).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	product, err := repo.MarkListed(context.Background(), 100, decimal.NewFromInt(18))
	if err != nil || !product.Listed || !product.CommissionRate.Equal(decimal.NewFromInt(18)) {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE products SET commission_rate").WithArgs("18", int64(101)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()
	if _, err := repo.MarkListed(context.Background(), 101, decimal.NewFromInt(18)); !errors.Is(err, domainErrors.ErrProductNotFound) {
		t.Fatalf("expected product not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCartRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &cartRepository{storage: storage}

	mock.ExpectQuery("FROM cart_items WHERE customer_id").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows([]string{"product_id", "quantity", "price"}).
			AddRow(int64(100), 2, "50.00").
			AddRow(int64(200), 3, "15.50"))
	cart, err := repo.Get(context.Background(), 1)
	if err != nil || len(cart.Items) != 2 || cart.CustomerID != 1 {
		t.Fatalf("unexpected cart: %+v err=%v", cart, err)
	}
	if !cart.Total().Equal(decimal.RequireFromString("146.50")) {
		t.Fatalf("unexpected total %s", cart.Total())
	}

	mock.ExpectQuery("FROM cart_items WHERE customer_id").WithArgs(int64(2)).WillReturnRows(
		pgxmockv3.NewRows([]string{"product_id", "quantity", "price"}))
	cart, err = repo.Get(context.Background(), 2)
	if err != nil || !cart.Empty() {
		t.Fatalf("expected empty cart, got %+v err=%v", cart, err)
	}

	mock.ExpectQuery("FROM cart_items WHERE customer_id").WithArgs(int64(3)).WillReturnError(errors.New("query"))
	if _, err := repo.Get(context.Background(), 3); err == nil {
		t.Fatal("expected error")
	}

	rowsErr := errors.New("rows err")
	failing := &cartRepository{storage: &Storage{pool: &rowsErrorPool{rows: &errorRows{err: rowsErr}}}}
	if _, err := failing.Get(context.Background(), 4); !errors.Is(err, rowsErr) {
		t.Fatalf("expected rows err, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
