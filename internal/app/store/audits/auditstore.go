// internal/app/store/audits/auditstore.go
package auditstore

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
	return &Store{c: db.Collection(indexes.Audits)}
}

func (s *Store) Create(ctx context.Context, audit models.Audit) (models.Audit, error) {
	now := time.Now().UTC()
	audit.ID = primitive.NewObjectID()
	if audit.Status == "" {
		audit.Status = models.AuditScheduled
	}
	audit.CreatedAt = now
	audit.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, audit); err != nil {
		return models.Audit{}, err
	}
	return audit, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Audit, error) {
	var audit models.Audit
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&audit)
	if err != nil {
		return models.Audit{}, err
	}
	return audit, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, audit models.Audit) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if audit.AuditType != "" {
		set["audit_type"] = audit.AuditType
	}
	if audit.Auditor != "" {
		set["auditor"] = audit.Auditor
	}
	if audit.Scope != "" {
		set["scope"] = audit.Scope
	}
	if audit.Status != "" {
		set["status"] = audit.Status
	}
	if audit.ScheduledDate != nil {
		set["scheduled_date"] = audit.ScheduledDate
	}
	if audit.ActualDate != nil {
		set["actual_date"] = audit.ActualDate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// AddFinding appends a finding and keeps the non-conformity count in sync.
func (s *Store) AddFinding(ctx context.Context, id primitive.ObjectID, finding models.AuditFinding) error {
	update := bson.M{
		"$push": bson.M{"findings": finding},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
		"$inc":  bson.M{"non_conformities_found": 1},
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// ListUpcoming returns audits scheduled on or after the given date.
func (s *Store) ListUpcoming(ctx context.Context, orgID primitive.ObjectID, from time.Time) ([]models.Audit, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}})
	return s.Find(ctx, bson.M{
		"organization_id": orgID,
		"scheduled_date":  bson.M{"$gte": from},
	}, opts)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Audit, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var audits []models.Audit
	if err := cur.All(ctx, &audits); err != nil {
		return nil, err
	}
	return audits, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
