package affiliate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// AffiliatesCollection holds affiliate records.
	AffiliatesCollection = "affiliates"
	// ConversionsCollection holds credited conversions.
	ConversionsCollection = "conversions"
)

type mongoStore struct {
	affiliates  *mongo.Collection
	conversions *mongo.Collection
}

// NewMongoStore returns a Store backed by mongo collections.
// Panics if db is nil to fail fast on wiring mistakes.
func NewMongoStore(db *mongo.Database) Store {
	if db == nil {
		panic("affiliate: mongo database is required")
	}
	return &mongoStore{
		affiliates:  db.Collection(AffiliatesCollection),
		conversions: db.Collection(ConversionsCollection),
	}
}

// EnsureIndexes creates the unique indexes the store relies on: one on the
// referral code and one on the conversion event ID. Duplicate-key errors on
// inserts map to ErrCodeTaken and ErrDuplicateConversion respectively.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(AffiliatesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "referral_code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	_, err = db.Collection(ConversionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

type affiliateDoc struct {
	ID               string    `bson:"_id"`
	Email            string    `bson:"email"`
	ReferralCode     string    `bson:"referral_code"`
	TotalClicks      int64     `bson:"total_clicks"`
	TotalConversions int64     `bson:"total_conversions"`
	TotalEarnings    int64     `bson:"total_earnings"`
	Status           Status    `bson:"status"`
	CreatedAt        time.Time `bson:"created_at"`
}

type conversionDoc struct {
	ID          string    `bson:"_id"`
	EventID     string    `bson:"event_id"`
	AffiliateID string    `bson:"affiliate_id"`
	TenantID    string    `bson:"tenant_id"`
	TenantEmail string    `bson:"tenant_email"`
	PlanKey     string    `bson:"plan_key"`
	Amount      int64     `bson:"amount"`
	Commission  int64     `bson:"commission"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d affiliateDoc) toAffiliate() (*Affiliate, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &Affiliate{
		ID:               id,
		Email:            d.Email,
		ReferralCode:     d.ReferralCode,
		TotalClicks:      d.TotalClicks,
		TotalConversions: d.TotalConversions,
		TotalEarnings:    d.TotalEarnings,
		Status:           d.Status,
		CreatedAt:        d.CreatedAt,
	}, nil
}

func (d conversionDoc) toConversion() (*Conversion, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	affID, err := uuid.Parse(d.AffiliateID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	tenantID, err := uuid.Parse(d.TenantID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &Conversion{
		ID:          id,
		EventID:     d.EventID,
		AffiliateID: affID,
		TenantID:    tenantID,
		TenantEmail: d.TenantEmail,
		PlanKey:     d.PlanKey,
		Amount:      d.Amount,
		Commission:  d.Commission,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func (s *mongoStore) Get(ctx context.Context, id uuid.UUID) (*Affiliate, error) {
	var doc affiliateDoc
	err := s.affiliates.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toAffiliate()
}

func (s *mongoStore) ByReferralCode(ctx context.Context, code string) (*Affiliate, error) {
	var doc affiliateDoc
	err := s.affiliates.FindOne(ctx, bson.M{"referral_code": code}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toAffiliate()
}

func (s *mongoStore) Create(ctx context.Context, aff *Affiliate) error {
	doc := affiliateDoc{
		ID:               aff.ID.String(),
		Email:            aff.Email,
		ReferralCode:     aff.ReferralCode,
		TotalClicks:      aff.TotalClicks,
		TotalConversions: aff.TotalConversions,
		TotalEarnings:    aff.TotalEarnings,
		Status:           aff.Status,
		CreatedAt:        aff.CreatedAt,
	}
	if _, err := s.affiliates.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCodeTaken
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *mongoStore) RecordClick(ctx context.Context, code string) error {
	_, err := s.affiliates.UpdateOne(ctx,
		bson.M{"referral_code": code},
		bson.M{"$inc": bson.M{"total_clicks": 1}},
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *mongoStore) CreateConversion(ctx context.Context, conv *Conversion) error {
	doc := conversionDoc{
		ID:          conv.ID.String(),
		EventID:     conv.EventID,
		AffiliateID: conv.AffiliateID.String(),
		TenantID:    conv.TenantID.String(),
		TenantEmail: conv.TenantEmail,
		PlanKey:     conv.PlanKey,
		Amount:      conv.Amount,
		Commission:  conv.Commission,
		CreatedAt:   conv.CreatedAt,
	}
	if _, err := s.conversions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateConversion
		}
		return errors.Join(ErrStoreFailure, err)
	}

	_, err := s.affiliates.UpdateOne(ctx,
		bson.M{"_id": conv.AffiliateID.String()},
		bson.M{"$inc": bson.M{
			"total_conversions": 1,
			"total_earnings":    conv.Commission,
		}},
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *mongoStore) Conversions(ctx context.Context, affiliateID uuid.UUID) ([]Conversion, error) {
	cursor, err := s.conversions.Find(ctx,
		bson.M{"affiliate_id": affiliateID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var docs []conversionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	out := make([]Conversion, 0, len(docs))
	for _, d := range docs {
		conv, err := d.toConversion()
		if err != nil {
			return nil, err
		}
		out = append(out, *conv)
	}
	return out, nil
}
