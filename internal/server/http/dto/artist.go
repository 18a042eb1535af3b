package dto

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/craftmarket/internal/domain/model"
)

// ArtistResponse is the admin view of an artist account.
type ArtistResponse struct {
	ID             int64            `json:"id"`
	Login          string           `json:"login"`
	Status         string           `json:"status"`
	StatusLabel    string           `json:"status_label"`
	NextStatuses   []string         `json:"next_statuses"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// NewArtistResponse lists the statuses the artist may move to next.
func NewArtistResponse(a model.Artist) ArtistResponse {
	next := a.Status.Successors()
	names := make([]string, 0, len(next))
	for _, s := range next {
		names = append(names, string(s))
	}
	return ArtistResponse{
		ID:             a.ID,
		Login:          a.Login,
		Status:         string(a.Status),
		StatusLabel:    a.Status.Humanize(),
		NextStatuses:   names,
		CommissionRate: a.CommissionRate,
	}
}

// ArtistStatusRequest moves an artist to the next onboarding status.
type ArtistStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CommissionRequest assigns the artist commission rate in percent.
type CommissionRequest struct {
	Rate *decimal.Decimal `json:"rate" binding:"required"`
}

// ListingRequest lists a product. A missing rate falls back to the artist
// rate and then to the platform default.
type ListingRequest struct {
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// ProductResponse describes a listed product.
type ProductResponse struct {
	ID             int64            `json:"id"`
	ArtistID       int64            `json:"artist_id"`
	Title          string           `json:"title"`
	Price          decimal.Decimal  `json:"price"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Listed         bool             `json:"listed"`
}

// NewProductResponse converts a product.
func NewProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		ArtistID:       p.ArtistID,
		Title:          p.Title,
		Price:          p.Price,
		CommissionRate: p.CommissionRate,
		Listed:         p.Listed,
	}
}
