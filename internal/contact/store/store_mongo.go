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

	"rishta/internal/contact/models"
	platformmongo "rishta/internal/platform/mongo"
	"rishta/pkg/platform/sentinel"
)

const Collection = "contactRequests"

type contactDocument struct {
	ID                string     `bson:"_id"`
	TargetProfileID   int64      `bson:"target_profile_id"`
	RequesterIdentity string     `bson:"requester_identity"`
	RequesterName     string     `bson:"requester_name"`
	RequesterMobile   string     `bson:"requester_mobile,omitempty"`
	PaymentReference  string     `bson:"payment_reference"`
	Status            string     `bson:"status"`
	RequestedAt       time.Time  `bson:"requested_at"`
	ApprovedAt        *time.Time `bson:"approved_at,omitempty"`
	Version           int64      `bson:"version"`
}

func toDocument(c *models.ContactRequest) contactDocument {
	return contactDocument{
		ID:                c.ID.String(),
		TargetProfileID:   c.TargetProfileID,
		RequesterIdentity: c.RequesterIdentity,
		RequesterName:     c.Requester.Name,
		RequesterMobile:   c.Requester.Mobile,
		PaymentReference:  c.PaymentReference,
		Status:            string(c.Status),
		RequestedAt:       c.RequestedAt,
		ApprovedAt:        c.ApprovedAt,
		Version:           c.Version,
	}
}

func (d contactDocument) toModel() (*models.ContactRequest, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse contact request id %q: %w", d.ID, err)
	}
	c := &models.ContactRequest{
		ID:                id,
		TargetProfileID:   d.TargetProfileID,
		RequesterIdentity: d.RequesterIdentity,
		Requester:         models.RequesterSnapshot{Name: d.RequesterName, Mobile: d.RequesterMobile},
		PaymentReference:  d.PaymentReference,
		Status:            models.Status(d.Status),
		RequestedAt:       d.RequestedAt.UTC(),
		Version:           d.Version,
	}
	if d.ApprovedAt != nil {
		t := d.ApprovedAt.UTC()
		c.ApprovedAt = &t
	}
	return c, nil
}

// Mongo persists contact requests; the compound unique index on
// (target_profile_id, requester_identity) is the duplicate authority.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(Collection)
	err := platformmongo.EnsureIndexes(ctx, coll,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "target_profile_id", Value: 1}, {Key: "requester_identity", Value: 1}},
			Options: options.Index().SetName("target_requester_unique").SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "requester_identity", Value: 1}},
		},
	)
	if err != nil {
		return nil, err
	}
	return &Mongo{coll: coll}, nil
}

func (s *Mongo) Create(ctx context.Context, c *models.ContactRequest) error {
	_, err := s.coll.InsertOne(ctx, toDocument(c))
	if _, dup := platformmongo.DuplicateIndex(err); dup {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert contact request: %w", err)
	}
	return nil
}

func (s *Mongo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error) {
	return s.findOne(ctx, bson.M{"_id": id.String()})
}

func (s *Mongo) FindByPair(ctx context.Context, targetProfileID int64, requester string) (*models.ContactRequest, error) {
	return s.findOne(ctx, bson.M{"target_profile_id": targetProfileID, "requester_identity": requester})
}

func (s *Mongo) findOne(ctx context.Context, filter bson.M) (*models.ContactRequest, error) {
	var doc contactDocument
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact request: %w", err)
	}
	return doc.toModel()
}

func (s *Mongo) ListByTarget(ctx context.Context, targetProfileID int64) ([]*models.ContactRequest, error) {
	return s.find(ctx, bson.M{"target_profile_id": targetProfileID})
}

func (s *Mongo) ListByRequester(ctx context.Context, requester string) ([]*models.ContactRequest, error) {
	return s.find(ctx, bson.M{"requester_identity": requester})
}

func (s *Mongo) ListAll(ctx context.Context) ([]*models.ContactRequest, error) {
	return s.find(ctx, bson.M{})
}

func (s *Mongo) find(ctx context.Context, filter bson.M) ([]*models.ContactRequest, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contact requests: %w", err)
	}
	out := make([]*models.ContactRequest, 0, len(docs))
	for _, d := range docs {
		c, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Mongo) Execute(ctx context.Context, id uuid.UUID, validate func(*models.ContactRequest) error, mutate func(*models.ContactRequest)) (*models.ContactRequest, error) {
	for range platformmongo.MaxCASAttempts {
		current, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := validate(current); err != nil {
			return nil, err
		}
		expected := current.Version
		mutate(current)
		current.Version = expected + 1

		res, err := s.coll.ReplaceOne(ctx,
			bson.M{"_id": id.String(), "version": expected},
			toDocument(current),
		)
		if err != nil {
			return nil, fmt.Errorf("replace contact request: %w", err)
		}
		if res.MatchedCount == 1 {
			return current, nil
		}
	}
	return nil, sentinel.ErrConflict
}

func (s *Mongo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete contact request: %w", err)
	}
	if res.DeletedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Mongo) UpdateRequesterName(ctx context.Context, requester, name string) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"requester_identity": requester, "requester_name": bson.M{"$ne": name}},
		bson.M{"$set": bson.M{"requester_name": name}, "$inc": bson.M{"version": int64(1)}},
	)
	if err != nil {
		return 0, fmt.Errorf("rename requester: %w", err)
	}
	return res.ModifiedCount, nil
}
