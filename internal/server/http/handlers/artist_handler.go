package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/server/http/dto"
)

// ArtistHandler serves artist administration and sales reports.
type ArtistHandler struct {
	facade ArtistFacade
}

func NewArtistHandler(facade ArtistFacade) *ArtistHandler {
	return &ArtistHandler{facade: facade}
}

// List handles GET /api/admin/artists.
func (h *ArtistHandler) List(c *gin.Context) {
	artists, err := h.facade.Artists(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.ArtistResponse, 0, len(artists))
	for _, a := range artists {
		out = append(out, dto.NewArtistResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

// TransitionStatus handles PATCH /api/admin/artists/:artistID/status.
func (h *ArtistHandler) TransitionStatus(c *gin.Context) {
	artistID, ok := pathID(c, "artistID")
	if !ok {
		return
	}
	var req dto.ArtistStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	artist, err := h.facade.TransitionArtistStatus(c.Request.Context(), artistID, model.ArtistStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewArtistResponse(*artist))
}

// SetCommission handles PUT /api/admin/artists/:artistID/commission.
func (h *ArtistHandler) SetCommission(c *gin.Context) {
	artistID, ok := pathID(c, "artistID")
	if !ok {
		return
	}
	var req dto.CommissionRequest
	if !bindJSON(c, &req) {
		return
	}
	artist, err := h.facade.SetCommissionRate(c.Request.Context(), artistID, *req.Rate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewArtistResponse(*artist))
}

// ListProduct handles PUT /api/admin/products/:productID/listing.
func (h *ArtistHandler) ListProduct(c *gin.Context) {
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}
	var req dto.ListingRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	product, err := h.facade.ListProduct(c.Request.Context(), productID, req.CommissionRate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(*product))
}

// Stats handles GET /api/admin/artists/:artistID/stats.
func (h *ArtistHandler) Stats(c *gin.Context) {
	artistID, ok := pathID(c, "artistID")
	if !ok {
		return
	}
	h.stats(c, artistID)
}

// OwnStats handles GET /api/artist/stats for the calling artist.
func (h *ArtistHandler) OwnStats(c *gin.Context) {
	h.stats(c, CurrentActor(c).UserID)
}

func (h *ArtistHandler) stats(c *gin.Context, artistID int64) {
	from, ok := dateQuery(c, "from", false)
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to", true)
	if !ok {
		return
	}
	stats, err := h.facade.ArtistStats(c.Request.Context(), artistID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	if stats.TopProducts == nil {
		stats.TopProducts = []model.ProductSales{}
	}
	c.JSON(http.StatusOK, stats)
}
