package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
	open  map[string]string // user id -> open cart id
}

func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: make(map[string]*domain.Cart),
		open:  make(map[string]string),
	}
}

var _ ports.CartRepository = (*CartRepository)(nil)

func cloneCart(c *domain.Cart) *domain.Cart {
	out := *c
	out.Items = slices.Clone(c.Items)
	if out.Items == nil {
		out.Items = []domain.CartItem{}
	}
	return &out
}

func (r *CartRepository) FindOpen(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.open[userID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cloneCart(r.carts[id]), nil
}

func (r *CartRepository) SetItem(_ context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := now()
	id, ok := r.open[userID]
	if !ok {
		id = newID()
		r.carts[id] = &domain.Cart{ID: id, UserID: userID, Status: domain.CartOpen, CreatedAt: ts}
		r.open[userID] = id
	}
	c := r.carts[id]

	idx := slices.IndexFunc(c.Items, func(it domain.CartItem) bool { return it.ArtworkID == item.ArtworkID })
	switch {
	case item.Quantity <= 0 && idx >= 0:
		c.Items = slices.Delete(c.Items, idx, idx+1)
	case item.Quantity > 0 && idx >= 0:
		c.Items[idx].Quantity = item.Quantity
	case item.Quantity > 0:
		c.Items = append(c.Items, item)
	}
	c.UpdatedAt = ts
	return cloneCart(c), nil
}

func (r *CartRepository) MarkPaid(_ context.Context, cartID string, at time.Time) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[cartID]
	if !ok || c.Status != domain.CartOpen {
		return nil, domain.ErrCartNotFound
	}
	c.Status = domain.CartPaid
	c.PaidAt = &at
	c.UpdatedAt = at
	delete(r.open, c.UserID)
	return cloneCart(c), nil
}
