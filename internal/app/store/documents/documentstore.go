// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"errors"
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

// ErrInvalidTransition is returned when a status change does not follow
// the review workflow (Draft → Under Review → Approved → Obsolete).
var ErrInvalidTransition = errors.New("document status transition not allowed")

// allowedTransitions maps a current status to its permitted successors.
var allowedTransitions = map[string][]string{
	models.DocumentDraft:    {models.DocumentReview},
	models.DocumentReview:   {models.DocumentApproved, models.DocumentDraft},
	models.DocumentApproved: {models.DocumentObsolete, models.DocumentReview},
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Documents)}
}

func (s *Store) Create(ctx context.Context, doc models.Document) (models.Document, error) {
	now := time.Now().UTC()
	doc.ID = primitive.NewObjectID()
	if doc.Status == "" {
		doc.Status = models.DocumentDraft
	}
	if doc.Version == "" {
		doc.Version = "1.0"
	}
	doc.IsCurrent = true
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Document, error) {
	var doc models.Document
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// Update modifies a document's editable fields and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, doc models.Document) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if doc.Title != "" {
		set["title"] = doc.Title
	}
	if doc.DocType != "" {
		set["doc_type"] = doc.DocType
	}
	if doc.Content != "" {
		set["content"] = doc.Content
	}
	if doc.Version != "" {
		set["version"] = doc.Version
	}
	if doc.NextReviewDate != nil {
		set["next_review_date"] = doc.NextReviewDate
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// UpdateStatus moves a document through the review workflow, recording the
// approver when the new status is Approved.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string, approvedBy *primitive.ObjectID) error {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !transitionAllowed(doc.Status, status) {
		return ErrInvalidTransition
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if status == models.DocumentApproved && approvedBy != nil {
		set["approved_by"] = approvedBy
	}
	if status == models.DocumentObsolete {
		set["is_current"] = false
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetSummary stores the AI-generated summary for a document.
func (s *Store) SetSummary(ctx context.Context, id primitive.ObjectID, summary string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"summary":    summary,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a document by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Document, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
