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

	platformmongo "rishta/internal/platform/mongo"
	"rishta/internal/story/models"
	"rishta/pkg/platform/sentinel"
)

const Collection = "successStories"

type storyDocument struct {
	ID               string    `bson:"_id"`
	SelfProfileID    int64     `bson:"self_profile_id"`
	PartnerProfileID int64     `bson:"partner_profile_id"`
	Title            string    `bson:"title"`
	CoupleImage      string    `bson:"couple_image"`
	Story            string    `bson:"story"`
	Rating           int       `bson:"rating"`
	MarriageDate     string    `bson:"marriage_date"`
	CreatedAt        time.Time `bson:"created_at"`
}

func (d storyDocument) toModel() (*models.Story, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse story id %q: %w", d.ID, err)
	}
	return &models.Story{
		ID:               id,
		SelfProfileID:    d.SelfProfileID,
		PartnerProfileID: d.PartnerProfileID,
		Title:            d.Title,
		CoupleImage:      d.CoupleImage,
		Story:            d.Story,
		Rating:           d.Rating,
		MarriageDate:     d.MarriageDate,
		CreatedAt:        d.CreatedAt.UTC(),
	}, nil
}

type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(Collection)
	err := platformmongo.EnsureIndexes(ctx, coll, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	return &Mongo{coll: coll}, nil
}

func (s *Mongo) Create(ctx context.Context, st *models.Story) error {
	_, err := s.coll.InsertOne(ctx, storyDocument{
		ID:               st.ID.String(),
		SelfProfileID:    st.SelfProfileID,
		PartnerProfileID: st.PartnerProfileID,
		Title:            st.Title,
		CoupleImage:      st.CoupleImage,
		Story:            st.Story,
		Rating:           st.Rating,
		MarriageDate:     st.MarriageDate,
		CreatedAt:        st.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	return nil
}

func (s *Mongo) FindByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	var doc storyDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find story: %w", err)
	}
	return doc.toModel()
}

func (s *Mongo) ListNewestFirst(ctx context.Context) ([]*models.Story, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	var docs []storyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode stories: %w", err)
	}
	out := make([]*models.Story, 0, len(docs))
	for _, d := range docs {
		st, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
