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

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collEvents)}
}

func eventOut(rec record[domain.Event]) *domain.Event {
	e := rec.Body
	e.ID = rec.ID.Hex()
	return &e
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, record[domain.Event]{Body: *e})
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.ID = insertedID(res)
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec record[domain.Event]
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return eventOut(rec), nil
}

// List returns events soonest first.
func (r *EventRepository) List(ctx context.Context, f domain.EventFilter) ([]*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if !f.After.IsZero() {
		filter["starts_at"] = bson.M{"$gte": f.After.UTC()}
	}
	if f.Search != "" {
		rx := containsRegex(f.Search)
		filter["$or"] = bson.A{bson.M{"title": rx}, bson.M{"description": rx}, bson.M{"location": rx}}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	pg := domain.Page{Page: f.Page, Limit: f.Limit}.Clamp()
	cur, err := r.col.Find(ctx, filter, pageOptions(pg.Skip(), pg.Limit, bson.D{{Key: "starts_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	var recs []record[domain.Event]
	if err := cur.All(ctx, &recs); err != nil {
		return nil, 0, fmt.Errorf("decode events: %w", err)
	}

	out := make([]*domain.Event, 0, len(recs))
	for _, rec := range recs {
		out = append(out, eventOut(rec))
	}
	return out, total, nil
}

func (r *EventRepository) Update(ctx context.Context, id string, p domain.EventPatch) (*domain.Event, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrEventNotFound
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
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.StartsAt != nil {
		set["starts_at"] = p.StartsAt.UTC()
	}
	if p.ImageURL != nil {
		set["image_url"] = *p.ImageURL
	}

	var rec record[domain.Event]
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, afterUpdate()).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return eventOut(rec), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrEventNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
