// internal/app/store/suppliers/supplierstore.go
package supplierstore

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
	return &Store{c: db.Collection(indexes.Suppliers)}
}

// Create inserts a supplier. When delivery metrics are present the
// performance score is computed immediately.
func (s *Store) Create(ctx context.Context, sup models.Supplier) (models.Supplier, error) {
	now := time.Now().UTC()
	sup.ID = primitive.NewObjectID()
	if sup.Status == "" {
		sup.Status = models.SupplierActive
	}
	if sup.OnTimeDelivery != nil && sup.DefectRate != nil {
		sup.PerformanceScore = scoring.SupplierPerformance(*sup.OnTimeDelivery, *sup.DefectRate, nil)
	}
	sup.CreatedAt = now
	sup.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sup); err != nil {
		return models.Supplier{}, err
	}
	return sup, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Supplier, error) {
	var sup models.Supplier
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sup)
	if err != nil {
		return models.Supplier{}, err
	}
	return sup, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, sup models.Supplier) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if sup.Name != "" {
		set["name"] = sup.Name
	}
	if sup.ContactEmail != "" {
		set["contact_email"] = sup.ContactEmail
	}
	if sup.ContactPhone != "" {
		set["contact_phone"] = sup.ContactPhone
	}
	if sup.Address != "" {
		set["address"] = sup.Address
	}
	if sup.Category != "" {
		set["category"] = sup.Category
	}
	if sup.Status != "" {
		set["status"] = sup.Status
	}
	if sup.LastAuditDate != nil {
		set["last_audit_date"] = sup.LastAuditDate
	}
	if sup.OnTimeDelivery != nil {
		set["on_time_delivery"] = sup.OnTimeDelivery
	}
	if sup.DefectRate != nil {
		set["defect_rate"] = sup.DefectRate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetEvaluation stores a recomputed performance score together with the
// evaluation agent's recommendation text.
func (s *Store) SetEvaluation(ctx context.Context, id primitive.ObjectID, score float64, recommendation string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"performance_score": score,
		"ai_recommendation": recommendation,
		"updated_at":        time.Now().UTC(),
	}})
	return err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Supplier, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var sups []models.Supplier
	if err := cur.All(ctx, &sups); err != nil {
		return nil, err
	}
	return sups, nil
}

// ListActive returns the organization's active suppliers, used by the
// supplier evaluation agent.
func (s *Store) ListActive(ctx context.Context, orgID primitive.ObjectID) ([]models.Supplier, error) {
	return s.Find(ctx, bson.M{"organization_id": orgID, "status": models.SupplierActive})
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
