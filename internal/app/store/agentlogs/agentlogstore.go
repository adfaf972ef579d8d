// internal/app/store/agentlogs/agentlogstore.go
package agentlogstore

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
	return &Store{c: db.Collection(indexes.AIAgentLogs)}
}

func (s *Store) Create(ctx context.Context, log models.AgentLog) (models.AgentLog, error) {
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, log); err != nil {
		return models.AgentLog{}, err
	}
	return log, nil
}

func (s *Store) GetByRunID(ctx context.Context, runID string) (models.AgentLog, error) {
	var log models.AgentLog
	err := s.c.FindOne(ctx, bson.M{"run_id": runID}).Decode(&log)
	if err != nil {
		return models.AgentLog{}, err
	}
	return log, nil
}

// ListForOrg returns an organization's agent runs, newest first,
// optionally filtered to a single agent.
func (s *Store) ListForOrg(ctx context.Context, orgID primitive.ObjectID, agentName string, opts ...*options.FindOptions) ([]models.AgentLog, error) {
	filter := bson.M{"organization_id": orgID}
	if agentName != "" {
		filter["agent_name"] = agentName
	}
	sorted := append([]*options.FindOptions{
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	}, opts...)
	return s.Find(ctx, filter, sorted...)
}

func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.AgentLog, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var logs []models.AgentLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
