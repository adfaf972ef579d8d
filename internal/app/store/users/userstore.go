// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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

var ErrDuplicateUser = errors.New("a user with this email or username already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(indexes.Users)}
}

func (s *Store) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	if user.Role == "" {
		user.Role = models.RoleViewer
	}
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, user); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Update modifies a user's mutable fields and refreshes UpdatedAt.
// The password hash and identifiers are managed by dedicated methods.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, user models.User) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if user.FullName != "" {
		set["full_name"] = user.FullName
	}
	if user.Role != "" {
		set["role"] = user.Role
	}
	if user.OrganizationID != nil {
		set["organization_id"] = user.OrganizationID
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// SetPassword replaces the stored bcrypt hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hashed string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"hashed_password": hashed,
		"updated_at":      time.Now().UTC(),
	}})
	return err
}

// SetActive enables or disables a user account.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns users matching the given filter with optional find options.
// The caller builds the filter and options (pagination, sorting).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
