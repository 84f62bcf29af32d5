package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	platformmongo "rishta/internal/platform/mongo"
	"rishta/internal/profile/models"
	"rishta/pkg/platform/sentinel"
)

const (
	Collection = "biodatas"

	ownerIndex     = "owner_identity_unique"
	profileIDIndex = "profile_id_unique"
)

type profileDocument struct {
	ObjectID         primitive.ObjectID `bson:"_id,omitempty"`
	ProfileID        int64              `bson:"profile_id"`
	OwnerIdentity    string             `bson:"owner_identity"`
	PremiumRequested bool               `bson:"premium_requested"`
	PremiumApproved  bool               `bson:"premium_approved"`
	Attributes       attributesDocument `bson:"attributes"`
	CreatedAt        time.Time          `bson:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at"`
	Version          int64              `bson:"version"`
}

type attributesDocument struct {
	BiodataType           string `bson:"biodata_type"`
	Name                  string `bson:"name"`
	ProfileImage          string `bson:"profile_image,omitempty"`
	DateOfBirth           string `bson:"date_of_birth,omitempty"`
	Age                   int    `bson:"age,omitempty"`
	Height                string `bson:"height,omitempty"`
	Weight                string `bson:"weight,omitempty"`
	Occupation            string `bson:"occupation,omitempty"`
	Race                  string `bson:"race,omitempty"`
	FathersName           string `bson:"fathers_name,omitempty"`
	MothersName           string `bson:"mothers_name,omitempty"`
	PermanentDivision     string `bson:"permanent_division,omitempty"`
	PresentDivision       string `bson:"present_division,omitempty"`
	ExpectedPartnerAge    string `bson:"expected_partner_age,omitempty"`
	ExpectedPartnerHeight string `bson:"expected_partner_height,omitempty"`
	ExpectedPartnerWeight string `bson:"expected_partner_weight,omitempty"`
	ContactEmail          string `bson:"contact_email,omitempty"`
	MobileNumber          string `bson:"mobile_number,omitempty"`
}

func toDocument(p *models.Profile) profileDocument {
	a := p.Attributes
	return profileDocument{
		ProfileID:        p.ProfileID,
		OwnerIdentity:    p.OwnerIdentity,
		PremiumRequested: p.PremiumRequested,
		PremiumApproved:  p.PremiumApproved,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
		Attributes: attributesDocument{
			BiodataType:           string(a.BiodataType),
			Name:                  a.Name,
			ProfileImage:          a.ProfileImage,
			DateOfBirth:           a.DateOfBirth,
			Age:                   a.Age,
			Height:                a.Height,
			Weight:                a.Weight,
			Occupation:            a.Occupation,
			Race:                  a.Race,
			FathersName:           a.FathersName,
			MothersName:           a.MothersName,
			PermanentDivision:     a.PermanentDivision,
			PresentDivision:       a.PresentDivision,
			ExpectedPartnerAge:    a.ExpectedPartnerAge,
			ExpectedPartnerHeight: a.ExpectedPartnerHeight,
			ExpectedPartnerWeight: a.ExpectedPartnerWeight,
			ContactEmail:          a.ContactEmail,
			MobileNumber:          a.MobileNumber,
		},
	}
}

func (d profileDocument) toModel() *models.Profile {
	a := d.Attributes
	return &models.Profile{
		ProfileID:        d.ProfileID,
		OwnerIdentity:    d.OwnerIdentity,
		PremiumRequested: d.PremiumRequested,
		PremiumApproved:  d.PremiumApproved,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
		Version:          d.Version,
		Attributes: models.Attributes{
			BiodataType:           models.BiodataType(a.BiodataType),
			Name:                  a.Name,
			ProfileImage:          a.ProfileImage,
			DateOfBirth:           a.DateOfBirth,
			Age:                   a.Age,
			Height:                a.Height,
			Weight:                a.Weight,
			Occupation:            a.Occupation,
			Race:                  a.Race,
			FathersName:           a.FathersName,
			MothersName:           a.MothersName,
			PermanentDivision:     a.PermanentDivision,
			PresentDivision:       a.PresentDivision,
			ExpectedPartnerAge:    a.ExpectedPartnerAge,
			ExpectedPartnerHeight: a.ExpectedPartnerHeight,
			ExpectedPartnerWeight: a.ExpectedPartnerWeight,
			ContactEmail:          a.ContactEmail,
			MobileNumber:          a.MobileNumber,
		},
	}
}

// Mongo persists profiles in the biodatas collection. Uniqueness of owner and
// profile id is enforced by unique indexes.
type Mongo struct {
	coll *mongo.Collection
}

// NewMongo returns a store over db and ensures its indexes exist.
func NewMongo(ctx context.Context, db *mongo.Database) (*Mongo, error) {
	coll := db.Collection(Collection)
	err := platformmongo.EnsureIndexes(ctx, coll,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "owner_identity", Value: 1}},
			Options: options.Index().SetName(ownerIndex).SetUnique(true),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "profile_id", Value: 1}},
			Options: options.Index().SetName(profileIDIndex).SetUnique(true),
		},
		mongo.IndexModel{
			Keys: bson.D{{Key: "attributes.biodata_type", Value: 1}, {Key: "attributes.present_division", Value: 1}},
		},
	)
	if err != nil {
		return nil, err
	}
	return &Mongo{coll: coll}, nil
}

func (s *Mongo) Create(ctx context.Context, p *models.Profile) error {
	_, err := s.coll.InsertOne(ctx, toDocument(p))
	if index, dup := platformmongo.DuplicateIndex(err); dup {
		if index == profileIDIndex {
			return ErrProfileIDTaken
		}
		return ErrOwnerTaken
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Mongo) FindByProfileID(ctx context.Context, profileID int64) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"profile_id": profileID})
}

func (s *Mongo) FindByOwner(ctx context.Context, owner string) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"owner_identity": owner})
}

func (s *Mongo) findOne(ctx context.Context, filter bson.M) (*models.Profile, error) {
	var doc profileDocument
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Mongo) MaxProfileID(ctx context.Context) (int64, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "profile_id", Value: -1}}).
		SetProjection(bson.M{"profile_id": 1})
	var doc profileDocument
	err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find max profile id: %w", err)
	}
	return doc.ProfileID, nil
}

func (s *Mongo) List(ctx context.Context, filter models.Filter, offset, limit int) ([]*models.Profile, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "profile_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	out := make([]*models.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (s *Mongo) Count(ctx context.Context, filter models.Filter) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, filterDocument(filter))
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func filterDocument(f models.Filter) bson.M {
	q := bson.M{}
	if f.BiodataType != "" {
		q["attributes.biodata_type"] = string(f.BiodataType)
	}
	if f.PresentDivision != "" {
		q["attributes.present_division"] = f.PresentDivision
	}
	if f.PremiumOnly {
		q["premium_approved"] = true
	}
	return q
}

// Execute loads the profile, applies validate and mutate, and replaces the
// document only if its version is unchanged, retrying lost races.
func (s *Mongo) Execute(ctx context.Context, profileID int64, validate func(*models.Profile) error, mutate func(*models.Profile)) (*models.Profile, error) {
	for range platformmongo.MaxCASAttempts {
		current, err := s.FindByProfileID(ctx, profileID)
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
			bson.M{"profile_id": profileID, "version": expected},
			toDocument(current),
		)
		if err != nil {
			return nil, fmt.Errorf("replace profile: %w", err)
		}
		if res.MatchedCount == 1 {
			return current, nil
		}
	}
	return nil, sentinel.ErrConflict
}
