// internal/app/store/risks/riskstore.go
package riskstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anvarov/qmshub/internal/app/system/indexes"
	"github.com/anvarov/qmshub/internal/app/system/scoring"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Risks)}
}

// Create inserts a risk, computing its score from likelihood and impact.
func (s *Store) Create(ctx context.Context, risk models.Risk) (models.Risk, error) {
	now := time.Now().UTC()
	risk.ID = primitive.NewObjectID()
	risk.RiskScore = scoring.RiskScore(risk.Likelihood, risk.Impact)
	if risk.Status == "" {
		risk.Status = models.RiskOpen
	}
	risk.CreatedAt = now
	risk.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, risk); err != nil {
		return models.Risk{}, err
	}
	return risk, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Risk, error) {
	var risk models.Risk
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&risk)
	if err != nil {
		return models.Risk{}, err
	}
	return risk, nil
}

// Update modifies a risk's mutable fields. When likelihood or impact
// change, the score is recomputed so it never drifts from its inputs;
// if only one of the pair is given, the stored value fills in the other.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, risk models.Risk) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if risk.Title != "" {
		set["title"] = risk.Title
	}
	if risk.Description != "" {
		set["description"] = risk.Description
	}
	if risk.Category != "" {
		set["category"] = risk.Category
	}
	if risk.Status != "" {
		set["status"] = risk.Status
	}
	if risk.Owner != "" {
		set["owner"] = risk.Owner
	}
	if risk.MitigationPlan != "" {
		set["mitigation_plan"] = risk.MitigationPlan
	}
	if risk.Likelihood > 0 || risk.Impact > 0 {
		likelihood, impact := risk.Likelihood, risk.Impact
		if likelihood == 0 || impact == 0 {
			current, err := s.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if likelihood == 0 {
				likelihood = current.Likelihood
			}
			if impact == 0 {
				impact = current.Impact
			}
		}
		set["likelihood"] = likelihood
		set["impact"] = impact
		set["risk_score"] = scoring.RiskScore(likelihood, impact)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetPrediction marks a risk as AI-predicted with the model's confidence.
func (s *Store) SetPrediction(ctx context.Context, id primitive.ObjectID, confidence float64) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"predicted_by_ai": true,
		"ai_confidence":   confidence,
		"updated_at":      time.Now().UTC(),
	}})
	return err
}

// Delete removes a risk by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Risk, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var risks []models.Risk
	if err := cur.All(ctx, &risks); err != nil {
		return nil, err
	}
	return risks, nil
}

// TopByScore returns the organization's open risks ordered by score,
// highest first. Dashboards and the risk prediction agent use this.
func (s *Store) TopByScore(ctx context.Context, orgID primitive.ObjectID, limit int64) ([]models.Risk, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "risk_score", Value: -1}}).
		SetLimit(limit)
	return s.Find(ctx, bson.M{"organization_id": orgID, "status": models.RiskOpen}, opts)
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
