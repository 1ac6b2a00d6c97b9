package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/memory"
)

func newCart(t *testing.T) (*CartService, *failingArtworks, *recordingNotifier) {
	t.Helper()
	artworks := &failingArtworks{ArtworkRepository: memory.NewArtworkRepository()}
	notifier := &recordingNotifier{}
	return NewCartService(memory.NewCartRepository(), artworks, notifier, testLog), artworks, notifier
}

func seedArtwork(t *testing.T, repo *failingArtworks, owner string, qty int) *domain.Artwork {
	t.Helper()
	a := &domain.Artwork{ArtistID: owner, Title: "piece", Price: "10", Quantity: qty}
	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("seed artwork: %v", err)
	}
	return a
}

func TestCartService_AddItemRespectsStock(t *testing.T) {
	svc, artworks, _ := newCart(t)
	ctx := context.Background()
	a := seedArtwork(t, artworks, artist.SubjectID, 2)

	if _, err := svc.AddItem(ctx, buyer, a.ID, 2); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if _, err := svc.AddItem(ctx, buyer, a.ID, 1); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if _, err := svc.AddItem(ctx, artist, a.ID, 1); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected artists to be unable to buy their own work, got %v", err)
	}
}

func TestCartService_Checkout(t *testing.T) {
	svc, artworks, notifier := newCart(t)
	ctx := context.Background()
	a := seedArtwork(t, artworks, artist.SubjectID, 3)

	if _, err := svc.AddItem(ctx, buyer, a.ID, 2); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	paid, err := svc.Checkout(ctx, buyer)
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if paid.Status != domain.CartPaid || paid.PaidAt == nil {
		t.Fatalf("expected cart to be paid, got %+v", paid)
	}

	left, _ := artworks.FindByID(ctx, a.ID)
	if left.Quantity != 1 {
		t.Fatalf("expected stock 1, got %d", left.Quantity)
	}
	if len(notifier.notices) != 1 || notifier.notices[0].Kind != domain.NotifySale {
		t.Fatalf("expected a sale notice, got %+v", notifier.notices)
	}

	cart, _ := svc.Get(ctx, buyer)
	if cart.Status != domain.CartOpen || len(cart.Items) != 0 {
		t.Fatalf("expected a fresh empty cart after checkout, got %+v", cart)
	}
}

func TestCartService_CheckoutRestoresStockOnFailure(t *testing.T) {
	svc, artworks, notifier := newCart(t)
	ctx := context.Background()
	first := seedArtwork(t, artworks, artist.SubjectID, 5)
	second := seedArtwork(t, artworks, artist2.SubjectID, 5)

	if _, err := svc.AddItem(ctx, buyer, first.ID, 2); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if _, err := svc.AddItem(ctx, buyer, second.ID, 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	artworks.decrementFail = second.ID

	if _, err := svc.Checkout(ctx, buyer); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage failure, got %v", err)
	}

	got, _ := artworks.FindByID(ctx, first.ID)
	if got.Quantity != 5 {
		t.Fatalf("expected stock to be restored to 5, got %d", got.Quantity)
	}
	cart, _ := svc.Get(ctx, buyer)
	if cart.Status != domain.CartOpen || len(cart.Items) != 2 {
		t.Fatalf("expected cart to stay open, got %+v", cart)
	}
	if len(notifier.notices) != 0 {
		t.Fatalf("expected no sale notices")
	}
}

func TestCartService_CheckoutEmpty(t *testing.T) {
	svc, artworks, _ := newCart(t)
	ctx := context.Background()
	a := seedArtwork(t, artworks, artist.SubjectID, 1)

	if _, err := svc.Checkout(ctx, buyer); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found without a cart, got %v", err)
	}

	_, _ = svc.AddItem(ctx, buyer, a.ID, 1)
	_, _ = svc.RemoveItem(ctx, buyer, a.ID)
	if _, err := svc.Checkout(ctx, buyer); !errors.Is(err, domain.ErrCartEmpty) {
		t.Fatalf("expected empty cart, got %v", err)
	}
}
