// Package store persists named trees in MongoDB for the HTTP server.
//
// Trees are stored as their canonical Newick text plus bookkeeping metadata,
// keyed by a generated UUID. The Newick text is the single source of truth:
// documents never store node graphs, so the stored form is independent of
// in-memory representation changes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	claderrors "github.com/cladeviz/clade/pkg/errors"
)

// DefaultTimeout bounds individual store operations when the caller's
// context carries no deadline.
const DefaultTimeout = 10 * time.Second

// Document is the stored form of a named tree.
type Document struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Newick    string    `bson:"newick" json:"newick"`
	LeafCount int       `bson:"leaf_count" json:"leaf_count"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Store wraps a MongoDB collection of tree documents.
type Store struct {
	col *mongo.Collection
}

// Config holds MongoDB connection settings.
type Config struct {
	URI        string // e.g. "mongodb://localhost:27017"
	Database   string // defaults to "clade"
	Collection string // defaults to "trees"
}

// Connect opens a client and returns a store over the configured collection.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		cfg.Database = "clade"
	}
	if cfg.Collection == "" {
		cfg.Collection = "trees"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, claderrors.Wrap(claderrors.ErrCodeStorage, err, "connect to %s", cfg.URI)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, claderrors.Wrap(claderrors.ErrCodeStorage, err, "ping %s", cfg.URI)
	}
	return &Store{col: client.Database(cfg.Database).Collection(cfg.Collection)}, nil
}

// NewWithCollection builds a store over an existing collection handle.
// Useful for tests that supply their own client.
func NewWithCollection(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// Save inserts a new document and returns it with a generated ID.
func (s *Store) Save(ctx context.Context, name, newick string, leafCount int) (*Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	now := time.Now().UTC()
	doc := &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Newick:    newick,
		LeafCount: leafCount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return nil, claderrors.Wrap(claderrors.ErrCodeStorage, err, "insert tree %q", name)
	}
	return doc, nil
}

// Get returns the document with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var doc Document
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, claderrors.New(claderrors.ErrCodeTreeNotFound, "no tree with id %q", id)
	}
	if err != nil {
		return nil, claderrors.Wrap(claderrors.ErrCodeStorage, err, "load tree %q", id)
	}
	return &doc, nil
}

// Update replaces the Newick text of an existing document.
func (s *Store) Update(ctx context.Context, id, newick string, leafCount int) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"newick":     newick,
		"leaf_count": leafCount,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return claderrors.Wrap(claderrors.ErrCodeStorage, err, "update tree %q", id)
	}
	if res.MatchedCount == 0 {
		return claderrors.New(claderrors.ErrCodeTreeNotFound, "no tree with id %q", id)
	}
	return nil
}

// List returns all documents sorted by most recently updated.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, claderrors.Wrap(claderrors.ErrCodeStorage, err, "list trees")
	}
	defer cur.Close(ctx)

	var docs []Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, claderrors.Wrap(claderrors.ErrCodeStorage, err, "decode trees")
	}
	return docs, nil
}

// Delete removes the document with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return claderrors.Wrap(claderrors.ErrCodeStorage, err, "delete tree %q", id)
	}
	if res.DeletedCount == 0 {
		return claderrors.New(claderrors.ErrCodeTreeNotFound, "no tree with id %q", id)
	}
	return nil
}

// bound attaches the default timeout when ctx has no deadline.
func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}
