package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

type ArtworkRepository struct {
	col *mongo.Collection
}

func NewArtworkRepository(db *mongo.Database) *ArtworkRepository {
	return &ArtworkRepository{col: db.Collection(collArtworks)}
}

func artworkOut(rec record[domain.Artwork]) *domain.Artwork {
	a := rec.Body
	a.ID = rec.ID.Hex()
	return &a
}

func (r *ArtworkRepository) Create(ctx context.Context, a *domain.Artwork) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, record[domain.Artwork]{Body: *a})
	if err != nil {
		return fmt.Errorf("insert artwork: %w", err)
	}
	a.ID = insertedID(res)
	return nil
}

func (r *ArtworkRepository) FindByID(ctx context.Context, id string) (*domain.Artwork, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrArtworkNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec record[domain.Artwork]
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtworkNotFound
		}
		return nil, fmt.Errorf("find artwork: %w", err)
	}
	return artworkOut(rec), nil
}

// List matches Search against title, description and category, newest first.
func (r *ArtworkRepository) List(ctx context.Context, f domain.ArtworkFilter) ([]*domain.Artwork, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ArtistID != "" {
		filter["artist_id"] = f.ArtistID
	}
	if f.Category != "" {
		filter["category"] = containsRegex(f.Category)
	}
	if f.Search != "" {
		rx := containsRegex(f.Search)
		filter["$or"] = bson.A{bson.M{"title": rx}, bson.M{"description": rx}, bson.M{"category": rx}}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count artworks: %w", err)
	}

	pg := domain.Page{Page: f.Page, Limit: f.Limit}.Clamp()
	cur, err := r.col.Find(ctx, filter, pageOptions(pg.Skip(), pg.Limit, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list artworks: %w", err)
	}
	var recs []record[domain.Artwork]
	if err := cur.All(ctx, &recs); err != nil {
		return nil, 0, fmt.Errorf("decode artworks: %w", err)
	}

	out := make([]*domain.Artwork, 0, len(recs))
	for _, rec := range recs {
		out = append(out, artworkOut(rec))
	}
	return out, total, nil
}

func (r *ArtworkRepository) Update(ctx context.Context, id string, p domain.ArtworkPatch) (*domain.Artwork, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrArtworkNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Quantity != nil {
		set["quantity"] = *p.Quantity
	}
	if p.ImageURL != nil {
		set["image_url"] = *p.ImageURL
	}

	var rec record[domain.Artwork]
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArtworkNotFound
		}
		return nil, fmt.Errorf("update artwork: %w", err)
	}
	return artworkOut(rec), nil
}

func (r *ArtworkRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrArtworkNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete artwork: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArtworkNotFound
	}
	return nil
}

// DecrementStock only matches while quantity >= n, so concurrent checkouts
// can never drive stock negative.
func (r *ArtworkRepository) DecrementStock(ctx context.Context, id string, n int) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrArtworkNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "quantity": bson.M{"$gte": n}},
		bson.M{"$inc": bson.M{"quantity": -n}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	exists, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if exists == 0 {
		return domain.ErrArtworkNotFound
	}
	return domain.ErrInsufficientStock
}

func (r *ArtworkRepository) IncrementStock(ctx context.Context, id string, n int) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrArtworkNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"quantity": n}, "$set": bson.M{"updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArtworkNotFound
	}
	return nil
}
