// internal/app/store/kpis/kpistore.go
package kpistore

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
	return &Store{c: db.Collection(indexes.KPIs)}
}

func (s *Store) Create(ctx context.Context, kpi models.KPI) (models.KPI, error) {
	now := time.Now().UTC()
	kpi.ID = primitive.NewObjectID()
	if kpi.Status == "" {
		kpi.Status = models.KPIOnTrack
	}
	kpi.CreatedAt = now
	kpi.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, kpi); err != nil {
		return models.KPI{}, err
	}
	return kpi, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.KPI, error) {
	var kpi models.KPI
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&kpi)
	if err != nil {
		return models.KPI{}, err
	}
	return kpi, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, kpi models.KPI) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if kpi.Name != "" {
		set["name"] = kpi.Name
	}
	if kpi.ISOClause != "" {
		set["iso_clause"] = kpi.ISOClause
	}
	if kpi.Unit != "" {
		set["unit"] = kpi.Unit
	}
	if kpi.Frequency != "" {
		set["frequency"] = kpi.Frequency
	}
	if kpi.Owner != "" {
		set["owner"] = kpi.Owner
	}
	if kpi.Status != "" {
		set["status"] = kpi.Status
	}
	if kpi.TargetValue != nil {
		set["target_value"] = kpi.TargetValue
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// RecordValue updates the current measurement and derives the tracking
// status from the target when one is set.
func (s *Store) RecordValue(ctx context.Context, id primitive.ObjectID, value float64) error {
	kpi, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	set := bson.M{
		"current_value": value,
		"updated_at":    time.Now().UTC(),
	}
	if kpi.TargetValue != nil && *kpi.TargetValue > 0 {
		set["status"] = trackStatus(value, *kpi.TargetValue)
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// trackStatus bands attainment: >=90% on track, >=70% at risk, else off track.
func trackStatus(current, target float64) string {
	ratio := current / target
	switch {
	case ratio >= 0.9:
		return models.KPIOnTrack
	case ratio >= 0.7:
		return models.KPIAtRisk
	default:
		return models.KPIOffTrack
	}
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.KPI, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var kpis []models.KPI
	if err := cur.All(ctx, &kpis); err != nil {
		return nil, err
	}
	return kpis, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
