// internal/app/store/feedback/feedbackstore.go
package feedbackstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anvarov/qmshub/internal/app/system/indexes"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.CustomerFeedback)}
}

func (s *Store) Create(ctx context.Context, fb models.CustomerFeedback) (models.CustomerFeedback, error) {
	fb.ID = primitive.NewObjectID()
	fb.AIAnalyzed = false
	fb.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, fb); err != nil {
		return models.CustomerFeedback{}, err
	}
	return fb, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.CustomerFeedback, error) {
	var fb models.CustomerFeedback
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&fb)
	if err != nil {
		return models.CustomerFeedback{}, err
	}
	return fb, nil
}

// SetAnalysis stores the sentiment result for one feedback record.
func (s *Store) SetAnalysis(ctx context.Context, id primitive.ObjectID, sentiment string, score float64, insights string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"sentiment":       sentiment,
		"sentiment_score": score,
		"ai_insights":     insights,
		"ai_analyzed":     true,
	}})
	return err
}

// ListUnanalyzed returns feedback not yet run through sentiment analysis,
// bounded by limit. Batch analysis drains this set.
func (s *Store) ListUnanalyzed(ctx context.Context, orgID primitive.ObjectID, limit int64) ([]models.CustomerFeedback, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit)
	return s.Find(ctx, bson.M{"organization_id": orgID, "ai_analyzed": false}, opts)
}

// SentimentCounts aggregates analyzed feedback per sentiment since the
// given time, for trend reporting.
func (s *Store) SentimentCounts(ctx context.Context, orgID primitive.ObjectID, since time.Time) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"organization_id": orgID,
			"ai_analyzed":     true,
			"created_at":      bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$sentiment",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Sentiment string `bson:"_id"`
			Count     int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Sentiment] = row.Count
	}
	return counts, cur.Err()
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.CustomerFeedback, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.CustomerFeedback
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
