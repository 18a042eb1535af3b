package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/domain/repository"
)

// StatsUseCase builds sales reports for artists.
type StatsUseCase struct {
	orders  repository.OrderRepository
	timeout StoreTimeout
	group   singleflight.Group
}

// NewStatsUseCase constructs StatsUseCase.
func NewStatsUseCase(orders repository.OrderRepository, timeout StoreTimeout) *StatsUseCase {
	return &StatsUseCase{orders: orders, timeout: timeout}
}

// ArtistStats aggregates orders of the artist placed within [from, to].
// Both bounds are optional. Identical concurrent requests share one store read;
// each caller waits for it under its own context.
func (u *StatsUseCase) ArtistStats(ctx context.Context, artistID int64, from, to *time.Time) (*model.ArtistStats, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, domainErrors.ErrInvalidDateRange
	}

	window := model.DateRange{From: from, To: to}
	key := fmt.Sprintf("%d|%s|%s", artistID, boundKey(from), boundKey(to))

	// The shared read must not inherit the cancellation of whichever caller
	// started it; it is bounded by the store timeout only.
	shared := context.WithoutCancel(ctx)
	ch := u.group.DoChan(key, func() (any, error) {
		orders, err := withStore(shared, u.timeout, func(ctx context.Context) ([]model.Order, error) {
			return u.orders.ListByArtist(ctx, artistID, window)
		})
		if err != nil {
			return nil, err
		}
		return AggregateArtistStats(artistID, orders), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrUnavailable, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	stats := res.Val.(model.ArtistStats)
	stats.TopProducts = append([]model.ProductSales(nil), stats.TopProducts...)
	return &stats, nil
}

func boundKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return strconv.FormatInt(t.UnixNano(), 10)
}

// AggregateArtistStats folds orders into a report. Only items of artistID are
// counted; orders without such items are ignored.
func AggregateArtistStats(artistID int64, orders []model.Order) model.ArtistStats {
	sorted := append([]model.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderDate.Before(sorted[j].OrderDate)
	})

	stats := model.ArtistStats{
		TotalOrderValue: decimal.Zero,
		TotalPayout:     decimal.Zero,
		TopProducts:     []model.ProductSales{},
	}
	position := make(map[string]int)

	for _, order := range sorted {
		view := order.ForArtist(artistID)
		if len(view.Items) == 0 {
			continue
		}

		stats.TotalOrders++
		allCancelled := true
		for _, item := range view.Items {
			if item.ShippingStatus != model.ShippingStatusCancelled {
				allCancelled = false
			}

			stats.TotalOrderValue = stats.TotalOrderValue.Add(item.Subtotal())
			if item.ShippingStatus == model.ShippingStatusShipped {
				stats.TotalPayout = stats.TotalPayout.Add(item.ArtistPayout)
			}

			title := item.ProductTitle
			if title == "" {
				title = "product #" + strconv.FormatInt(item.ProductID, 10)
			}
			idx, ok := position[title]
			if !ok {
				idx = len(stats.TopProducts)
				position[title] = idx
				stats.TopProducts = append(stats.TopProducts, model.ProductSales{Title: title})
			}
			stats.TopProducts[idx].Quantity += item.Quantity
		}

		switch {
		case allCancelled:
			stats.Cancellations++
		case view.Status() == model.OrderStatusCompleted:
			stats.Shipped++
		default:
			stats.Pending++
		}
	}

	sort.SliceStable(stats.TopProducts, func(i, j int) bool {
		return stats.TopProducts[i].Quantity > stats.TopProducts[j].Quantity
	})
	stats.TotalOrderValue = model.RoundMoney(stats.TotalOrderValue)
	stats.TotalPayout = model.RoundMoney(stats.TotalPayout)
	return stats
}
