package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rishta/internal/favorite/models"
	platformmongo "rishta/internal/platform/mongo"
	"rishta/pkg/platform/sentinel"
)

const Collection = "favorites"

type entryDocument struct {
	ID              string    `bson:"_id"`
	OwnerIdentity   string    `bson:"owner_identity"`
	TargetProfileID int64     `bson:"target_profile_id"`
	Name            string    `bson:"name"`
	PresentDivision string    `bson:"present_division"`
	Occupation      string    `bson:"occupation"`
	CreatedAt       time.Time `bson:"created_at"`
}

func toDocument(e *models.Entry) entryDocument {
	return entryDocument{
		ID:              e.ID.String(),
		OwnerIdentity:   e.OwnerIdentity,
		TargetProfileID: e.TargetProfileID,
		Name:            e.Name,
		PresentDivision: e.PresentDivision,
		Occupation:      e.Occupation,
		CreatedAt:       e.CreatedAt,
	}
}

func (d entryDocument) toModel() (*models.Entry, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse favorite id %q: %w", d.ID, err)
	}
	return &models.Entry{
		ID:              id,
		OwnerIdentity:   d.OwnerIdentity,
		TargetProfileID: d.TargetProfileID,
		Summary: models.Summary{
			Name:            d.Name,
			PresentDivision: d.PresentDivision,
			Occupation:      d.Occupation,
		},
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(Collection)
	err := platformmongo.EnsureIndexes(ctx, coll, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_identity", Value: 1}, {Key: "target_profile_id", Value: 1}},
		Options: options.Index().SetName("owner_target_unique").SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &Mongo{coll: coll}, nil
}

func (s *Mongo) Create(ctx context.Context, e *models.Entry) error {
	_, err := s.coll.InsertOne(ctx, toDocument(e))
	if _, dup := platformmongo.DuplicateIndex(err); dup {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (s *Mongo) Delete(ctx context.Context, id uuid.UUID) (*models.Entry, error) {
	var doc entryDocument
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete favorite: %w", err)
	}
	return doc.toModel()
}

func (s *Mongo) ListByOwner(ctx context.Context, owner string) ([]*models.Entry, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"owner_identity": owner},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	var docs []entryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	out := make([]*models.Entry, 0, len(docs))
	for _, d := range docs {
		e, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
