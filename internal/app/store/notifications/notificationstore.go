// internal/app/store/notifications/notificationstore.go
package notificationstore

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
	return &Store{c: db.Collection(indexes.Notifications)}
}

func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	if n.Priority == "" {
		n.Priority = models.PriorityMedium
	}
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Notification, error) {
	var n models.Notification
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListForUser returns a user's notifications, newest first. When
// unreadOnly is set, read notifications are excluded.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, opts ...*options.FindOptions) ([]models.Notification, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}
	sorted := append([]*options.FindOptions{
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	}, opts...)
	return s.Find(ctx, filter, sorted...)
}

// MarkRead flags one notification as read. Returns the number modified.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkAllRead flags every unread notification for the user as read.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Notification, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Notification
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
