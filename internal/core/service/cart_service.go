package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/api/metrics"
	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// CartService manages the caller's open cart and its checkout.
type CartService struct {
	carts    ports.CartRepository
	artworks ports.ArtworkRepository
	notifier ports.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewCartService(carts ports.CartRepository, artworks ports.ArtworkRepository, notifier ports.Notifier, log zerolog.Logger) *CartService {
	return &CartService{carts: carts, artworks: artworks, notifier: notifier, log: log, now: time.Now}
}

// Get returns the open cart, or an empty one when the user has none yet.
func (s *CartService) Get(ctx context.Context, who domain.Identity) (*domain.Cart, error) {
	c, err := s.carts.FindOpen(ctx, who.SubjectID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Cart{UserID: who.SubjectID, Items: []domain.CartItem{}, Status: domain.CartOpen}, nil
	}
	if err != nil {
		return nil, domain.StorageFailure("find cart", err)
	}
	return c, nil
}

// AddItem adds quantity units of an artwork. The resulting cart quantity may
// not exceed the artwork's current stock.
func (s *CartService) AddItem(ctx context.Context, who domain.Identity, artworkID string, quantity int) (*domain.Cart, error) {
	artworkID = strings.TrimSpace(artworkID)
	if artworkID == "" {
		return nil, domain.Invalid("artworkId is required")
	}
	if quantity < 1 {
		return nil, domain.Invalid("quantity must be at least 1")
	}

	a, err := s.artworks.FindByID(ctx, artworkID)
	if err != nil {
		return nil, domain.StorageFailure("find artwork", err)
	}
	if a.ArtistID == who.SubjectID {
		return nil, domain.Invalid("artists cannot buy their own artwork")
	}

	cur, err := s.Get(ctx, who)
	if err != nil {
		return nil, err
	}
	want := cur.Quantity(artworkID) + quantity
	if !a.InStock(want) {
		return nil, domain.ErrInsufficientStock
	}

	c, err := s.carts.SetItem(ctx, who.SubjectID, domain.CartItem{ArtworkID: artworkID, Quantity: want})
	if err != nil {
		return nil, domain.StorageFailure("update cart", err)
	}
	return c, nil
}

func (s *CartService) RemoveItem(ctx context.Context, who domain.Identity, artworkID string) (*domain.Cart, error) {
	cur, err := s.carts.FindOpen(ctx, who.SubjectID)
	if err != nil {
		return nil, domain.StorageFailure("find cart", err)
	}
	if cur.Quantity(artworkID) == 0 {
		return nil, domain.ErrArtworkNotFound
	}
	c, err := s.carts.SetItem(ctx, who.SubjectID, domain.CartItem{ArtworkID: artworkID})
	if err != nil {
		return nil, domain.StorageFailure("update cart", err)
	}
	return c, nil
}

// Checkout decrements stock for every item and marks the cart paid. When a
// decrement or the final update fails, the stock already taken is returned.
func (s *CartService) Checkout(ctx context.Context, who domain.Identity) (*domain.Cart, error) {
	cart, err := s.carts.FindOpen(ctx, who.SubjectID)
	if err != nil {
		return nil, domain.StorageFailure("find cart", err)
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	listings := make(map[string]*domain.Artwork, len(cart.Items))
	for _, it := range cart.Items {
		a, err := s.artworks.FindByID(ctx, it.ArtworkID)
		if err != nil {
			metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
			return nil, domain.StorageFailure("find artwork", err)
		}
		listings[it.ArtworkID] = a
	}

	sg := newSaga("cart.checkout", s.log)
	for _, it := range cart.Items {
		sg.step("reserve:"+it.ArtworkID, func(ctx context.Context) error {
			if err := s.artworks.DecrementStock(ctx, it.ArtworkID, it.Quantity); err != nil {
				return domain.StorageFailure("reserve stock", err)
			}
			return nil
		}, func(ctx context.Context) {
			if err := s.artworks.IncrementStock(ctx, it.ArtworkID, it.Quantity); err != nil {
				s.log.Error().Err(err).Str("artwork_id", it.ArtworkID).Int("quantity", it.Quantity).Msg("failed to restore stock")
			}
		})
	}

	var paid *domain.Cart
	sg.step("mark_paid", func(ctx context.Context) error {
		c, err := s.carts.MarkPaid(ctx, cart.ID, s.now().UTC())
		if err != nil {
			return domain.StorageFailure("mark cart paid", err)
		}
		paid = c
		return nil
	}, nil)

	if err := sg.run(ctx); err != nil {
		result := "failed"
		if errors.Is(err, domain.ErrInsufficientStock) {
			result = "out_of_stock"
		}
		metrics.CheckoutsTotal.WithLabelValues(result).Inc()
		return nil, err
	}
	metrics.CheckoutsTotal.WithLabelValues("paid").Inc()
	s.log.Info().Str("cart_id", paid.ID).Str("user_id", who.SubjectID).Int("items", len(paid.Items)).Msg("cart checked out")

	for _, it := range paid.Items {
		a := listings[it.ArtworkID]
		if a == nil {
			continue
		}
		s.notifier.Notify(ctx, domain.Notice{
			Kind:            domain.NotifySale,
			RecipientID:     a.ArtistID,
			SenderID:        who.SubjectID,
			Message:         fmt.Sprintf("%d × %q sold", it.Quantity, a.Title),
			Link:            "/artworks/" + a.ID,
			RelatedItemID:   a.ID,
			RelatedItemKind: "artwork",
		})
	}
	return paid, nil
}
