// internal/app/store/nonconformities/ncstore.go
package ncstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/google/uuid"
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

var ErrDuplicateNCNumber = errors.New("a non-conformity with this number already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.NonConformities)}
}

// NewNCNumber generates an NC number of the form NC-<year>-<suffix>.
// The suffix comes from a UUID, so numbers are collision-free without a
// counter document; the unique index backs the invariant.
func NewNCNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("NC-%d-%s", now.Year(), suffix)
}

// Create inserts a non-conformity, assigning an NC number when absent.
func (s *Store) Create(ctx context.Context, nc models.NonConformity) (models.NonConformity, error) {
	now := time.Now().UTC()
	nc.ID = primitive.NewObjectID()
	if nc.NCNumber == "" {
		nc.NCNumber = NewNCNumber(now)
	}
	if nc.Status == "" {
		nc.Status = models.NCOpen
	}
	if nc.ReportedDate.IsZero() {
		nc.ReportedDate = now
	}
	nc.CreatedAt = now
	nc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, nc); err != nil {
		if wafflemongo.IsDup(err) {
			return models.NonConformity{}, ErrDuplicateNCNumber
		}
		return models.NonConformity{}, err
	}
	return nc, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.NonConformity, error) {
	var nc models.NonConformity
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&nc)
	if err != nil {
		return models.NonConformity{}, err
	}
	return nc, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, nc models.NonConformity) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if nc.Title != "" {
		set["title"] = nc.Title
	}
	if nc.Description != "" {
		set["description"] = nc.Description
	}
	if nc.Severity != "" {
		set["severity"] = nc.Severity
	}
	if nc.Status != "" {
		set["status"] = nc.Status
	}
	if nc.CorrectiveAction != "" {
		set["corrective_action"] = nc.CorrectiveAction
	}
	if nc.Owner != "" {
		set["owner"] = nc.Owner
	}
	if nc.DueDate != nil {
		set["due_date"] = nc.DueDate
	}
	if nc.VerificationDate != nil {
		set["verification_date"] = nc.VerificationDate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetRootCause records a confirmed root cause and the analysis method.
func (s *Store) SetRootCause(ctx context.Context, id primitive.ObjectID, cause, method string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"root_cause":        cause,
		"root_cause_method": method,
		"updated_at":        time.Now().UTC(),
	}})
	return err
}

// SetSuggestedCauses stores the causes proposed by the root cause agent.
func (s *Store) SetSuggestedCauses(ctx context.Context, id primitive.ObjectID, causes []string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"ai_suggested_causes": causes,
		"updated_at":          time.Now().UTC(),
	}})
	return err
}

// ListOpen returns the organization's open non-conformities, most recent
// first. The root cause agent works from this list.
func (s *Store) ListOpen(ctx context.Context, orgID primitive.ObjectID) ([]models.NonConformity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reported_date", Value: -1}})
	return s.Find(ctx, bson.M{"organization_id": orgID, "status": models.NCOpen}, opts)
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.NonConformity, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ncs []models.NonConformity
	if err := cur.All(ctx, &ncs); err != nil {
		return nil, err
	}
	return ncs, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
