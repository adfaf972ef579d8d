// internal/app/store/equipment/equipmentstore.go
package equipmentstore

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
	return &Store{c: db.Collection(indexes.Equipment)}
}

func (s *Store) Create(ctx context.Context, eq models.Equipment) (models.Equipment, error) {
	now := time.Now().UTC()
	eq.ID = primitive.NewObjectID()
	if eq.Status == "" {
		eq.Status = models.EquipmentActive
	}
	eq.CreatedAt = now
	eq.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, eq); err != nil {
		return models.Equipment{}, err
	}
	return eq, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Equipment, error) {
	var eq models.Equipment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&eq)
	if err != nil {
		return models.Equipment{}, err
	}
	return eq, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, eq models.Equipment) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if eq.Name != "" {
		set["equipment_name"] = eq.Name
	}
	if eq.Code != "" {
		set["equipment_code"] = eq.Code
	}
	if eq.Description != "" {
		set["description"] = eq.Description
	}
	if eq.Location != "" {
		set["location"] = eq.Location
	}
	if eq.Status != "" {
		set["status"] = eq.Status
	}
	if eq.MaintenanceFrequency != "" {
		set["maintenance_frequency"] = eq.MaintenanceFrequency
	}
	if eq.LastMaintenance != nil {
		set["last_maintenance"] = eq.LastMaintenance
	}
	if eq.NextMaintenance != nil {
		set["next_maintenance"] = eq.NextMaintenance
	}
	if eq.UsageHours > 0 {
		set["usage_hours"] = eq.UsageHours
	}
	if eq.CalibrationDueDate != nil {
		set["calibration_due_date"] = eq.CalibrationDueDate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetPredictedMaintenance stores the maintenance date forecast by the
// predictive maintenance agent.
func (s *Store) SetPredictedMaintenance(ctx context.Context, id primitive.ObjectID, predicted time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"predicted_maintenance_date": predicted,
		"updated_at":                 time.Now().UTC(),
	}})
	return err
}

// ListMaintenanceDue returns equipment whose next maintenance falls on or
// before the given date.
func (s *Store) ListMaintenanceDue(ctx context.Context, orgID primitive.ObjectID, by time.Time) ([]models.Equipment, error) {
	return s.Find(ctx, bson.M{
		"organization_id":  orgID,
		"next_maintenance": bson.M{"$lte": by},
	})
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Equipment, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Equipment
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
