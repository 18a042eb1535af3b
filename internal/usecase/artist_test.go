package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/craftmarket/internal/domain/errors"
	"github.com/polkiloo/craftmarket/internal/domain/model"
	"github.com/polkiloo/craftmarket/internal/settlement"
	testhelpers "github.com/polkiloo/craftmarket/internal/test"
)

func newArtistUseCase(t *testing.T, artists *testhelpers.ArtistRepositoryStub, products *testhelpers.ProductRepositoryStub) *ArtistUseCase {
	t.Helper()
	engine, err := settlement.NewEngine(decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return NewArtistUseCase(artists, products, engine, StoreTimeout(time.Second), testhelpers.DiscardLogger())
}

func TestArtistTransitionWalksWorkflow(t *testing.T) {
	artists := testhelpers.NewArtistRepositoryStub(model.Artist{ID: 1, Login: "ana", Status: model.ArtistStatusRequestReceived})
	uc := newArtistUseCase(t, artists, testhelpers.NewProductRepositoryStub())

	path := []model.ArtistStatus{
		model.ArtistStatusWaitingForDocuments,
		model.ArtistStatusReceivedDocuments,
		model.ArtistStatusApproved,
		model.ArtistStatusRejected,
	}
	for _, next := range path {
		artist, err := uc.TransitionStatus(context.Background(), 1, next)
		if err != nil {
			t.Fatalf("transition to %s returned error: %v", next, err)
		}
		if artist.Status != next {
			t.Fatalf("expected %s, got %s", next, artist.Status)
		}
	}
	if len(artists.Delisted) != 1 || artists.Delisted[0] != 1 {
		t.Fatalf("rejection must delist products, got %v", artists.Delisted)
	}
}

func TestArtistTransitionRejections(t *testing.T) {
	cases := []struct {
		name    string
		from    model.ArtistStatus
		next    model.ArtistStatus
		want    error
		current string
	}{
		{"skip documents", model.ArtistStatusRequestReceived, model.ArtistStatusApproved, domainErrors.ErrInvalidStatusTransition, "request_received"},
		{"rejected is terminal", model.ArtistStatusRejected, model.ArtistStatusApproved, domainErrors.ErrInvalidStatusTransition, "rejected"},
		{"no self loop", model.ArtistStatusApproved, model.ArtistStatusApproved, domainErrors.ErrInvalidStatusTransition, "approved"},
		{"unknown status", model.ArtistStatusApproved, "suspended", domainErrors.ErrInvalidStatus, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			artists := testhelpers.NewArtistRepositoryStub(model.Artist{ID: 1, Status: tc.from})
			uc := newArtistUseCase(t, artists, testhelpers.NewProductRepositoryStub())
			_, err := uc.TransitionStatus(context.Background(), 1, tc.next)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if current, _ := domainErrors.CurrentState(err); current != tc.current {
				t.Fatalf("expected current %q, got %q", tc.current, current)
			}
			stored, _ := artists.Get(context.Background(), 1)
			if stored.Status != tc.from {
				t.Fatalf("status must be unchanged, got %s", stored.Status)
			}
		})
	}

	uc := newArtistUseCase(t, testhelpers.NewArtistRepositoryStub(), testhelpers.NewProductRepositoryStub())
	if _, err := uc.TransitionStatus(context.Background(), 404, model.ArtistStatusApproved); !errors.Is(err, domainErrors.ErrArtistNotFound) {
		t.Fatalf("expected artist not found, got %v", err)
	}
}

type racingArtists struct {
	*testhelpers.ArtistRepositoryStub
}

// UpdateStatus simulates a concurrent admin who moved the artist first.
func (r racingArtists) UpdateStatus(ctx context.Context, change model.ArtistStatusChange) (*model.Artist, error) {
	r.Artists[change.ArtistID].Status = model.ArtistStatusRejected
	return r.ArtistRepositoryStub.UpdateStatus(ctx, change)
}

func TestArtistTransitionLostRaceReportsCurrent(t *testing.T) {
	artists := testhelpers.NewArtistRepositoryStub(model.Artist{ID: 1, Status: model.ArtistStatusReceivedDocuments})
	engine, _ := settlement.NewEngine(decimal.Zero)
	uc := NewArtistUseCase(racingArtists{artists}, testhelpers.NewProductRepositoryStub(), engine, 0, testhelpers.DiscardLogger())

	_, err := uc.TransitionStatus(context.Background(), 1, model.ArtistStatusApproved)
	if !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if current, _ := domainErrors.CurrentState(err); current != string(model.ArtistStatusRejected) {
		t.Fatalf("expected current rejected, got %q", current)
	}
}

func TestSetCommissionRate(t *testing.T) {
	artists := testhelpers.NewArtistRepositoryStub(model.Artist{ID: 1, Status: model.ArtistStatusRequestReceived})
	uc := newArtistUseCase(t, artists, testhelpers.NewProductRepositoryStub())

	for _, bad := range []string{"-1", "100", "150"} {
		if _, err := uc.SetCommissionRate(context.Background(), 1, dec(bad)); !errors.Is(err, domainErrors.ErrInvalidRate) {
			t.Fatalf("rate %s: expected invalid rate, got %v", bad, err)
		}
	}

	artist, err := uc.SetCommissionRate(context.Background(), 1, dec("12.5"))
	if err != nil {
		t.Fatalf("set commission returned error: %v", err)
	}
	if artist.CommissionRate == nil || !artist.CommissionRate.Equal(dec("12.5")) {
		t.Fatalf("unexpected rate %v", artist.CommissionRate)
	}
}

func TestListProduct(t *testing.T) {
	newFixture := func(status model.ArtistStatus, artistRate *decimal.Decimal) (*ArtistUseCase, *testhelpers.ProductRepositoryStub) {
		artists := testhelpers.NewArtistRepositoryStub(model.Artist{ID: 1, Status: status, CommissionRate: artistRate})
		products := testhelpers.NewProductRepositoryStub(model.Product{ID: 7, ArtistID: 1, Title: "Bowl", Price: dec("30")})
		return newArtistUseCase(t, artists, products), products
	}

	t.Run("explicit rate", func(t *testing.T) {
		uc, _ := newFixture(model.ArtistStatusApproved, decPtr("15"))
		product, err := uc.ListProduct(context.Background(), 7, decPtr("22"))
		if err != nil {
			t.Fatalf("list product returned error: %v", err)
		}
		if !product.Listed || !product.CommissionRate.Equal(dec("22")) {
			t.Fatalf("unexpected product %+v", product)
		}
	})

	t.Run("artist rate", func(t *testing.T) {
		uc, _ := newFixture(model.ArtistStatusApproved, decPtr("15"))
		product, err := uc.ListProduct(context.Background(), 7, nil)
		if err != nil {
			t.Fatalf("list product returned error: %v", err)
		}
		if !product.CommissionRate.Equal(dec("15")) {
			t.Fatalf("expected artist rate, got %s", product.CommissionRate)
		}
	})

	t.Run("platform default", func(t *testing.T) {
		uc, _ := newFixture(model.ArtistStatusApproved, nil)
		product, err := uc.ListProduct(context.Background(), 7, nil)
		if err != nil {
			t.Fatalf("list product returned error: %v", err)
		}
		if !product.CommissionRate.Equal(dec("5")) {
			t.Fatalf("expected default rate, got %s", product.CommissionRate)
		}
	})

	t.Run("artist not approved", func(t *testing.T) {
		uc, products := newFixture(model.ArtistStatusReceivedDocuments, nil)
		_, err := uc.ListProduct(context.Background(), 7, nil)
		if !errors.Is(err, domainErrors.ErrAccountNotApproved) {
			t.Fatalf("expected not approved, got %v", err)
		}
		if p, _ := products.Get(context.Background(), 7); p.Listed {
			t.Fatal("product must stay unlisted")
		}
	})

	t.Run("invalid rate", func(t *testing.T) {
		uc, _ := newFixture(model.ArtistStatusApproved, nil)
		if _, err := uc.ListProduct(context.Background(), 7, decPtr("100")); !errors.Is(err, domainErrors.ErrInvalidRate) {
			t.Fatalf("expected invalid rate, got %v", err)
		}
	})

	t.Run("missing product", func(t *testing.T) {
		uc, _ := newFixture(model.ArtistStatusApproved, nil)
		if _, err := uc.ListProduct(context.Background(), 8, nil); !errors.Is(err, domainErrors.ErrProductNotFound) {
			t.Fatalf("expected product not found, got %v", err)
		}
	})
}

func TestArtistsListing(t *testing.T) {
	artists := testhelpers.NewArtistRepositoryStub(
		model.Artist{ID: 2, Login: "b", Status: model.ArtistStatusApproved},
		model.Artist{ID: 1, Login: "a", Status: model.ArtistStatusRequestReceived},
	)
	uc := newArtistUseCase(t, artists, testhelpers.NewProductRepositoryStub())
	list, err := uc.Artists(context.Background())
	if err != nil {
		t.Fatalf("artists returned error: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 {
		t.Fatalf("unexpected listing %+v", list)
	}
}
