// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Descriptor declares one index on one collection. Descriptors are static:
// the full catalogue for the application lives in All() and is applied
// idempotently at every startup.
type Descriptor struct {
	Collection string
	Name       string
	Keys       bson.D
	Unique     bool
	Sparse     bool
}

// KeySig renders the key pattern as a stable signature string, used to match
// a descriptor against indexes that already exist on the collection.
func (d Descriptor) KeySig() string {
	return keySig(d.Keys)
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

// Ensure makes the descriptor's index exist on its collection.
//
// It is idempotent: an index with the same key pattern and uniqueness is
// reused as-is (a no-op, never an error). An index with the same keys but
// different uniqueness is dropped and recreated. If the collection does not
// exist yet, Mongo creates it implicitly as an empty collection; that is
// expected behavior, not an error.
func Ensure(ctx context.Context, db *mongo.Database, d Descriptor) error {
	coll := db.Collection(d.Collection)

	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet lists zero indexes on real
		// MongoDB; some vendors error instead. Either way, fall through to
		// CreateOne, which creates the collection implicitly.
		existing = nil
	}

	if ex, ok := existing[d.KeySig()]; ok {
		exUnique := ex.Unique != nil && *ex.Unique
		if exUnique == d.Unique {
			zap.L().Debug("reusing existing index",
				zap.String("collection", d.Collection),
				zap.String("name", ex.Name),
				zap.String("keys", d.KeySig()))
			return nil
		}
		// Uniqueness changed: drop and recreate.
		if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
			return fmt.Errorf("drop %s: %w", ex.Name, err)
		}
	}

	if _, err := coll.Indexes().CreateOne(ctx, d.model()); err != nil {
		if isOptionsConflict(err) {
			// Same keys already indexed under another name with compatible
			// options; treat as present.
			zap.L().Warn("index options conflict, keeping existing index",
				zap.String("collection", d.Collection),
				zap.String("name", d.Name),
				zap.Error(err))
			return nil
		}
		return err
	}

	zap.L().Info("index ensured",
		zap.String("collection", d.Collection),
		zap.String("name", d.Name),
		zap.String("keys", d.KeySig()),
		zap.Bool("unique", d.Unique))
	return nil
}

func (d Descriptor) model() mongo.IndexModel {
	opts := options.Index().SetName(d.Name)
	if d.Unique {
		opts = opts.SetUnique(true)
	}
	if d.Sparse {
		opts = opts.SetSparse(true)
	}
	return mongo.IndexModel{Keys: d.Keys, Options: opts}
}

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name.
func isOptionsConflict(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}
