package premium

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rishta/internal/membership/models"
	platformmongo "rishta/internal/platform/mongo"
	"rishta/pkg/platform/sentinel"
)

const Collection = "premium_members"

type memberDocument struct {
	ID           string    `bson:"_id"`
	Identity     string    `bson:"identity"`
	Name         string    `bson:"name"`
	ProfileID    int64     `bson:"profile_id,omitempty"`
	ProfileImage string    `bson:"profile_image,omitempty"`
	AddedAt      time.Time `bson:"added_at"`
}

// Mongo persists the roster in premium_members with a unique identity index.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(Collection)
	err := platformmongo.EnsureIndexes(ctx, coll, mongo.IndexModel{
		Keys:    bson.D{{Key: "identity", Value: 1}},
		Options: options.Index().SetName("identity_unique").SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &Mongo{coll: coll}, nil
}

func (s *Mongo) Create(ctx context.Context, m *models.PremiumMember) error {
	_, err := s.coll.InsertOne(ctx, memberDocument{
		ID:           m.ID.String(),
		Identity:     m.Identity,
		Name:         m.Name,
		ProfileID:    m.ProfileID,
		ProfileImage: m.ProfileImage,
		AddedAt:      m.AddedAt,
	})
	if _, dup := platformmongo.DuplicateIndex(err); dup {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert premium member: %w", err)
	}
	return nil
}

func (s *Mongo) ListAll(ctx context.Context) ([]*models.PremiumMember, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list premium members: %w", err)
	}
	var docs []memberDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode premium members: %w", err)
	}
	out := make([]*models.PremiumMember, 0, len(docs))
	for _, d := range docs {
		id, err := uuid.Parse(d.ID)
		if err != nil {
			return nil, fmt.Errorf("parse premium member id %q: %w", d.ID, err)
		}
		out = append(out, &models.PremiumMember{
			ID:           id,
			Identity:     d.Identity,
			Name:         d.Name,
			ProfileID:    d.ProfileID,
			ProfileImage: d.ProfileImage,
			AddedAt:      d.AddedAt.UTC(),
		})
	}
	return out, nil
}
