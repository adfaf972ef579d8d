// internal/app/store/training/trainingstore.go
package trainingstore

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
	return &Store{c: db.Collection(indexes.Training)}
}

func (s *Store) Create(ctx context.Context, tr models.Training) (models.Training, error) {
	now := time.Now().UTC()
	tr.ID = primitive.NewObjectID()
	if tr.Status == "" {
		tr.Status = models.TrainingPending
	}
	if tr.AssignedDate == nil {
		tr.AssignedDate = &now
	}
	tr.CreatedAt = now
	tr.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, tr); err != nil {
		return models.Training{}, err
	}
	return tr, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Training, error) {
	var tr models.Training
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&tr)
	if err != nil {
		return models.Training{}, err
	}
	return tr, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, tr models.Training) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if tr.TrainingType != "" {
		set["training_type"] = tr.TrainingType
	}
	if tr.Topic != "" {
		set["topic"] = tr.Topic
	}
	if tr.Status != "" {
		set["status"] = tr.Status
	}
	if tr.DocumentID != nil {
		set["document_id"] = tr.DocumentID
	}
	if tr.ProficiencyLevel != nil {
		set["proficiency_level"] = tr.ProficiencyLevel
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Complete marks a training record completed with a proficiency level.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID, proficiency int) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":            models.TrainingCompleted,
		"completion_date":   now,
		"proficiency_level": proficiency,
		"updated_at":        now,
	}})
	return err
}

// ListByUser returns a user's training records, newest assignment first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Training, error) {
	opts := options.Find().SetSort(bson.D{{Key: "assigned_date", Value: -1}})
	return s.Find(ctx, bson.M{"user_id": userID}, opts)
}

// ListPending returns the organization's pending or expired assignments,
// which the training gap agent examines.
func (s *Store) ListPending(ctx context.Context, orgID primitive.ObjectID) ([]models.Training, error) {
	return s.Find(ctx, bson.M{
		"organization_id": orgID,
		"status":          bson.M{"$in": []string{models.TrainingPending, models.TrainingExpired}},
	})
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Training, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.Training
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
