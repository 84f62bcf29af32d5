package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rishta/internal/membership/models"
	platformmongo "rishta/internal/platform/mongo"
	"rishta/pkg/platform/sentinel"
)

const Collection = "users"

type accountDocument struct {
	ObjectID         primitive.ObjectID `bson:"_id,omitempty"`
	Identity         string             `bson:"identity"`
	DisplayName      string             `bson:"name"`
	PhotoURL         string             `bson:"photo_url,omitempty"`
	Role             string             `bson:"role"`
	IsPremium        bool               `bson:"is_premium"`
	PremiumRequested bool               `bson:"premium_requested"`
	LinkedProfileID  int64              `bson:"linked_profile_id,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
	Version          int64              `bson:"version"`
}

func toDocument(a *models.Account) accountDocument {
	return accountDocument{
		Identity:         a.Identity,
		DisplayName:      a.DisplayName,
		PhotoURL:         a.PhotoURL,
		Role:             string(a.Role),
		IsPremium:        a.IsPremium,
		PremiumRequested: a.PremiumRequested,
		LinkedProfileID:  a.LinkedProfileID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Version:          a.Version,
	}
}

func (d accountDocument) toModel() *models.Account {
	return &models.Account{
		Identity:         d.Identity,
		DisplayName:      d.DisplayName,
		PhotoURL:         d.PhotoURL,
		Role:             models.Role(d.Role),
		IsPremium:        d.IsPremium,
		PremiumRequested: d.PremiumRequested,
		LinkedProfileID:  d.LinkedProfileID,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
		Version:          d.Version,
	}
}

// Mongo persists accounts in the users collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(Collection)
	err := platformmongo.EnsureIndexes(ctx, coll,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "identity", Value: 1}},
			Options: options.Index().SetName("identity_unique").SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "premium_requested", Value: 1}},
		},
	)
	if err != nil {
		return nil, err
	}
	return &Mongo{coll: coll}, nil
}

func (s *Mongo) Create(ctx context.Context, a *models.Account) error {
	_, err := s.coll.InsertOne(ctx, toDocument(a))
	if _, dup := platformmongo.DuplicateIndex(err); dup {
		return sentinel.ErrAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Mongo) FindByIdentity(ctx context.Context, identity string) (*models.Account, error) {
	var doc accountDocument
	err := s.coll.FindOne(ctx, bson.M{"identity": identity}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Mongo) List(ctx context.Context, filter models.Filter, offset, limit int) ([]*models.Account, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "identity", Value: 1}}).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := s.coll.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	out := make([]*models.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Mongo) Count(ctx context.Context, filter models.Filter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, filterDocument(filter))
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func filterDocument(f models.Filter) bson.M {
	q := bson.M{}
	if f.NameContains != "" {
		q["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.NameContains), Options: "i"}
	}
	if f.Role != "" {
		q["role"] = string(f.Role)
	}
	if f.PremiumRequested {
		q["premium_requested"] = true
	}
	return q
}

// Execute replaces the account only if its version is unchanged since it was
// read, retrying lost races.
func (s *Mongo) Execute(ctx context.Context, identity string, validate func(*models.Account) error, mutate func(*models.Account)) (*models.Account, error) {
	for range platformmongo.MaxCASAttempts {
		current, err := s.FindByIdentity(ctx, identity)
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
			bson.M{"identity": identity, "version": expected},
			toDocument(current),
		)
		if err != nil {
			return nil, fmt.Errorf("replace account: %w", err)
		}
		if res.MatchedCount == 1 {
			return current, nil
		}
	}
	return nil, sentinel.ErrConflict
}
