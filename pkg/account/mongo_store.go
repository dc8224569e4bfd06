package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

// CollectionName is the mongo collection holding tenant accounts.
const CollectionName = "accounts"

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore returns a Store backed by a mongo collection.
// Panics if db is nil to fail fast on wiring mistakes.
func NewMongoStore(db *mongo.Database) Store {
	if db == nil {
		panic("account: mongo database is required")
	}
	return &mongoStore{col: db.Collection(CollectionName)}
}

// accountDoc is the stored shape of Account. IDs are persisted as strings so
// documents stay readable and queryable without a custom UUID codec.
type accountDoc struct {
	ID              string             `bson:"_id"`
	Email           string             `bson:"email"`
	PlanKey         string             `bson:"plan_key"`
	BlogsUsed       int64              `bson:"blogs_used"`
	WordsUsed       int64              `bson:"words_used"`
	TeamMembers     int64              `bson:"team_members"`
	BillingCycleEnd time.Time          `bson:"billing_cycle_end"`
	CustomerID      string             `bson:"customer_id,omitempty"`
	SubscriptionID  string             `bson:"subscription_id,omitempty"`
	Status          SubscriptionStatus `bson:"subscription_status,omitempty"`
	PaymentFailed   bool               `bson:"payment_failed"`
	ReferredBy      string             `bson:"referred_by,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toDoc(acc *Account) accountDoc {
	return accountDoc{
		ID:              acc.ID.String(),
		Email:           acc.Email,
		PlanKey:         acc.PlanKey,
		BlogsUsed:       acc.BlogsUsed,
		WordsUsed:       acc.WordsUsed,
		TeamMembers:     acc.TeamMembers,
		BillingCycleEnd: acc.BillingCycleEnd,
		CustomerID:      acc.CustomerID,
		SubscriptionID:  acc.SubscriptionID,
		Status:          acc.Status,
		PaymentFailed:   acc.PaymentFailed,
		ReferredBy:      acc.ReferredBy,
		CreatedAt:       acc.CreatedAt,
		UpdatedAt:       acc.UpdatedAt,
	}
}

func (d accountDoc) toAccount() (*Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &Account{
		ID:              id,
		Email:           d.Email,
		PlanKey:         d.PlanKey,
		BlogsUsed:       d.BlogsUsed,
		WordsUsed:       d.WordsUsed,
		TeamMembers:     d.TeamMembers,
		BillingCycleEnd: d.BillingCycleEnd,
		CustomerID:      d.CustomerID,
		SubscriptionID:  d.SubscriptionID,
		Status:          d.Status,
		PaymentFailed:   d.PaymentFailed,
		ReferredBy:      d.ReferredBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}, nil
}

func (s *mongoStore) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	var doc accountDoc
	err := s.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toAccount()
}

func (s *mongoStore) GetBySubscription(ctx context.Context, subscriptionID string) (*Account, error) {
	if subscriptionID == "" {
		return nil, ErrNotFound
	}

	// Fetch up to two matches so ambiguity is detected instead of silently
	// picking a document.
	cursor, err := s.col.Find(ctx,
		bson.M{"subscription_id": subscriptionID},
		options.Find().SetLimit(2),
	)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var docs []accountDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	switch len(docs) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return docs[0].toAccount()
	default:
		return nil, ErrAmbiguousSubscription
	}
}

func (s *mongoStore) Create(ctx context.Context, acc *Account) error {
	if _, err := s.col.InsertOne(ctx, toDoc(acc)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyExists
		}
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *mongoStore) Update(ctx context.Context, id uuid.UUID, patch Patch) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.PlanKey != nil {
		set["plan_key"] = *patch.PlanKey
	}
	if patch.CustomerID != nil {
		set["customer_id"] = *patch.CustomerID
	}
	if patch.SubscriptionID != nil {
		set["subscription_id"] = *patch.SubscriptionID
	}
	if patch.Status != nil {
		set["subscription_status"] = *patch.Status
	}
	if patch.PaymentFailed != nil {
		set["payment_failed"] = *patch.PaymentFailed
	}
	if patch.TeamMembers != nil {
		set["team_members"] = *patch.TeamMembers
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{"$set": set})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) IncrementUsage(ctx context.Context, id uuid.UUID, blogs, words int64) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{
		"$inc": bson.M{"blogs_used": blogs, "words_used": words},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoStore) IncrementUsageWithin(ctx context.Context, id uuid.UUID, words, blogLimit, wordLimit int64) error {
	// The quota conditions ride in the update filter, making the
	// check-and-increment a single atomic document operation.
	filter := bson.M{"_id": id.String()}
	if blogLimit != plans.Unlimited {
		filter["blogs_used"] = bson.M{"$lt": blogLimit}
	}
	if wordLimit != plans.Unlimited {
		filter["words_used"] = bson.M{"$lte": wordLimit - words}
	}

	res, err := s.col.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"blogs_used": int64(1), "words_used": words},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Filter missed: either the account does not exist or a quota condition
	// failed. Distinguish the two for the caller.
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return ErrUsageLimitReached
}

func (s *mongoStore) ResetUsage(ctx context.Context, id uuid.UUID, cycleEnd time.Time) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id.String()}, bson.M{
		"$set": bson.M{
			"blogs_used":        int64(0),
			"words_used":        int64(0),
			"billing_cycle_end": cycleEnd.UTC(),
			"payment_failed":    false,
			"updated_at":        time.Now().UTC(),
		},
	})
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
