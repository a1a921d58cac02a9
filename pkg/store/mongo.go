package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string        // defaults to "renders"
	Retention  time.Duration // records older than this are expired by MongoDB; zero keeps them
}

// MongoStore archives renders in a MongoDB collection keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// renderDoc is the stored document. Seeds are kept as decimal strings
// because BSON has no unsigned 64-bit integer.
type renderDoc struct {
	ID          string    `bson:"_id"`
	Identity    string    `bson:"identity"`
	Seed        string    `bson:"seed"`
	FrameID     string    `bson:"frame_id"`
	SourceKind  string    `bson:"source_kind"`
	Format      string    `bson:"format"`
	ContentType string    `bson:"content_type"`
	Data        []byte    `bson:"data"`
	CreatedAt   time.Time `bson:"created_at"`
}

// NewMongoStore connects to MongoDB and ensures the retention index.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("store: mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = "glitchid"
	}
	if cfg.Collection == "" {
		cfg.Collection = "renders"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if cfg.Retention > 0 {
		_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cfg.Retention / time.Second)),
		})
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("create retention index: %w", err)
		}
	}
	return s, nil
}

func (s *MongoStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}
	doc := renderDoc{
		ID:          rec.ID,
		Identity:    rec.Identity,
		Seed:        strconv.FormatUint(rec.Seed, 10),
		FrameID:     rec.FrameID,
		SourceKind:  rec.SourceKind,
		Format:      rec.Format,
		ContentType: rec.ContentType,
		Data:        rec.Data,
		CreatedAt:   rec.CreatedAt,
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save render %s: %w", rec.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc renderDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get render %s: %w", id, err)
	}

	seed, err := strconv.ParseUint(doc.Seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("render %s: bad seed %q", id, doc.Seed)
	}
	return &Record{
		ID:          doc.ID,
		Identity:    doc.Identity,
		Seed:        seed,
		FrameID:     doc.FrameID,
		SourceKind:  doc.SourceKind,
		Format:      doc.Format,
		ContentType: doc.ContentType,
		Data:        doc.Data,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
