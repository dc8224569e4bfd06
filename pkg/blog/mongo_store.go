package blog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the mongo collection holding generated posts.
const CollectionName = "blogs"

type mongoStore struct {
	col *mongo.Collection
}

// NewMongoStore returns a Store backed by a mongo collection.
// Panics if db is nil to fail fast on wiring mistakes.
func NewMongoStore(db *mongo.Database) Store {
	if db == nil {
		panic("blog: mongo database is required")
	}
	return &mongoStore{col: db.Collection(CollectionName)}
}

type blogDoc struct {
	ID        string    `bson:"_id"`
	OwnerID   string    `bson:"owner_id"`
	Keyword   string    `bson:"keyword"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	WordCount int64     `bson:"word_count"`
	PlanKey   string    `bson:"plan_key"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d blogDoc) toBlog() (*Blog, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return &Blog{
		ID:        id,
		OwnerID:   owner,
		Keyword:   d.Keyword,
		Title:     d.Title,
		Content:   d.Content,
		WordCount: d.WordCount,
		PlanKey:   d.PlanKey,
		CreatedAt: d.CreatedAt,
	}, nil
}

func (s *mongoStore) Create(ctx context.Context, b *Blog) error {
	doc := blogDoc{
		ID:        b.ID.String(),
		OwnerID:   b.OwnerID.String(),
		Keyword:   b.Keyword,
		Title:     b.Title,
		Content:   b.Content,
		WordCount: b.WordCount,
		PlanKey:   b.PlanKey,
		CreatedAt: b.CreatedAt,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

func (s *mongoStore) Get(ctx context.Context, id uuid.UUID) (*Blog, error) {
	var doc blogDoc
	err := s.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	return doc.toBlog()
}

func (s *mongoStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Blog, error) {
	cursor, err := s.col.Find(ctx,
		bson.M{"owner_id": ownerID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	var docs []blogDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}

	out := make([]Blog, 0, len(docs))
	for _, d := range docs {
		b, err := d.toBlog()
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}
