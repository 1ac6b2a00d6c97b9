package ports

import (
	"context"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

type CartRepository interface {
	// FindOpen returns the user's open cart or domain.ErrCartNotFound.
	FindOpen(ctx context.Context, userID string) (*domain.Cart, error)
	// SetItem sets the quantity of an item in the user's open cart, creating
	// the cart when needed. A quantity of zero removes the item.
	SetItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error)
	MarkPaid(ctx context.Context, cartID string, at time.Time) (*domain.Cart, error)
}

type CartService interface {
	Get(ctx context.Context, who domain.Identity) (*domain.Cart, error)
	AddItem(ctx context.Context, who domain.Identity, artworkID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, who domain.Identity, artworkID string) (*domain.Cart, error)
	// Checkout is the payment gateway's contract: mark the cart paid and
	// decrement stock for every item.
	Checkout(ctx context.Context, who domain.Identity) (*domain.Cart, error)
}
