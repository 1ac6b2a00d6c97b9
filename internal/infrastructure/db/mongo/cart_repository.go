package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// CartRepository keeps at most one open cart per user, enforced by a
// partial unique index on user_id.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection(collCarts)}
}

func cartOut(rec record[domain.Cart]) *domain.Cart {
	c := rec.Body
	c.ID = rec.ID.Hex()
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return &c
}

func openCart(userID string) bson.M {
	return bson.M{"user_id": userID, "status": string(domain.CartOpen)}
}

func (r *CartRepository) FindOpen(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec record[domain.Cart]
	if err := r.col.FindOne(ctx, openCart(userID)).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return cartOut(rec), nil
}

func (r *CartRepository) SetItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ts := time.Now().UTC()
	upsert := options.Update().SetUpsert(true)

	if item.Quantity > 0 {
		filter := openCart(userID)
		filter["items.artwork_id"] = item.ArtworkID
		res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"items.$.quantity": item.Quantity, "updated_at": ts}})
		if err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
		if res.MatchedCount == 0 {
			_, err = r.col.UpdateOne(ctx, openCart(userID), bson.M{
				"$push":        bson.M{"items": item},
				"$set":         bson.M{"updated_at": ts},
				"$setOnInsert": bson.M{"created_at": ts},
			}, upsert)
			if err != nil {
				return nil, fmt.Errorf("add cart item: %w", err)
			}
		}
	} else {
		_, err := r.col.UpdateOne(ctx, openCart(userID), bson.M{
			"$pull":        bson.M{"items": bson.M{"artwork_id": item.ArtworkID}},
			"$set":         bson.M{"updated_at": ts},
			"$setOnInsert": bson.M{"created_at": ts},
		}, upsert)
		if err != nil {
			return nil, fmt.Errorf("remove cart item: %w", err)
		}
	}

	var rec record[domain.Cart]
	if err := r.col.FindOne(ctx, openCart(userID)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}
	return cartOut(rec), nil
}

// MarkPaid closes an open cart. A cart that is already paid is not found.
func (r *CartRepository) MarkPaid(ctx context.Context, cartID string, at time.Time) (*domain.Cart, error) {
	oid, ok := objectID(cartID)
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec record[domain.Cart]
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "status": string(domain.CartOpen)},
		bson.M{"$set": bson.M{"status": string(domain.CartPaid), "paid_at": at, "updated_at": at}},
		afterUpdate(),
	).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("mark cart paid: %w", err)
	}
	return cartOut(rec), nil
}
