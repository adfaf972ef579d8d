// internal/app/store/policies/policystore.go
package policystore

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
	return &Store{c: db.Collection(indexes.Policies)}
}

func (s *Store) Create(ctx context.Context, policy models.Policy) (models.Policy, error) {
	now := time.Now().UTC()
	policy.ID = primitive.NewObjectID()
	if policy.Status == "" {
		policy.Status = models.DocumentDraft
	}
	policy.CreatedAt = now
	policy.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, policy); err != nil {
		return models.Policy{}, err
	}
	return policy, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Policy, error) {
	var policy models.Policy
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&policy)
	if err != nil {
		return models.Policy{}, err
	}
	return policy, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, policy models.Policy) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if policy.Title != "" {
		set["title"] = policy.Title
	}
	if policy.ISOClause != "" {
		set["iso_clause"] = policy.ISOClause
	}
	if policy.Content != "" {
		set["content"] = policy.Content
	}
	if policy.Status != "" {
		set["status"] = policy.Status
	}
	if policy.ApprovalDate != nil {
		set["approval_date"] = policy.ApprovalDate
	}
	if policy.NextReviewDate != nil {
		set["next_review_date"] = policy.NextReviewDate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Policy, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var policies []models.Policy
	if err := cur.All(ctx, &policies); err != nil {
		return nil, err
	}
	return policies, nil
}

// ListByClause returns an organization's policies for one ISO clause.
func (s *Store) ListByClause(ctx context.Context, orgID primitive.ObjectID, clause string) ([]models.Policy, error) {
	return s.Find(ctx, bson.M{"organization_id": orgID, "iso_clause": clause})
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
