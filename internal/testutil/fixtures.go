package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anvarov/qmshub/internal/app/system/indexes"
	"github.com/anvarov/qmshub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateOrganization inserts a test organization and returns it with
// its generated ID.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Industry:     "Manufacturing",
		ISOStandards: []string{"ISO 9001:2015"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, indexes.Organizations, org)
	return org
}

// CreateUser inserts a test user in the given organization and role.
func (f *Fixtures) CreateUser(ctx context.Context, orgID primitive.ObjectID, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:             primitive.NewObjectID(),
		Email:          email,
		Username:       email,
		HashedPassword: "$2a$10$fixture.not.a.real.bcrypt.hash.value",
		Role:           role,
		IsActive:       true,
		OrganizationID: &orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, indexes.Users, user)
	return user
}

// CreateRisk inserts a test risk with the given likelihood and impact.
func (f *Fixtures) CreateRisk(ctx context.Context, orgID primitive.ObjectID, title string, likelihood, impact int) models.Risk {
	f.t.Helper()

	now := time.Now().UTC()
	risk := models.Risk{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          title,
		Category:       "Operational",
		Likelihood:     likelihood,
		Impact:         impact,
		RiskScore:      float64(likelihood * impact),
		Status:         models.RiskOpen,
		CreatedBy:      primitive.NewObjectID(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, indexes.Risks, risk)
	return risk
}

// CreateSupplier inserts a test supplier with delivery metrics.
func (f *Fixtures) CreateSupplier(ctx context.Context, orgID primitive.ObjectID, name string, otd, defectRate float64) models.Supplier {
	f.t.Helper()

	now := time.Now().UTC()
	sup := models.Supplier{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Name:           name,
		Category:       "Raw Material",
		Status:         models.SupplierActive,
		OnTimeDelivery: &otd,
		DefectRate:     &defectRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, indexes.Suppliers, sup)
	return sup
}

// CreateDocument inserts a test document in draft status.
func (f *Fixtures) CreateDocument(ctx context.Context, orgID primitive.ObjectID, title, docType string) models.Document {
	f.t.Helper()

	now := time.Now().UTC()
	doc := models.Document{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Title:          title,
		DocType:        docType,
		Content:        "Fixture content for " + title,
		Version:        "1.0",
		Status:         models.DocumentDraft,
		CreatedBy:      primitive.NewObjectID(),
		IsCurrent:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, indexes.Documents, doc)
	return doc
}

// CreateNonConformity inserts a test non-conformity.
func (f *Fixtures) CreateNonConformity(ctx context.Context, orgID primitive.ObjectID, ncNumber, title string) models.NonConformity {
	f.t.Helper()

	now := time.Now().UTC()
	nc := models.NonConformity{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		NCNumber:       ncNumber,
		Title:          title,
		Description:    "Fixture description for " + title,
		Severity:       "Major",
		ReportedDate:   now,
		Status:         models.NCOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, indexes.NonConformities, nc)
	return nc
}

// CreateEquipment inserts a test equipment record.
func (f *Fixtures) CreateEquipment(ctx context.Context, orgID primitive.ObjectID, name string, nextMaintenance *time.Time) models.Equipment {
	f.t.Helper()

	now := time.Now().UTC()
	eq := models.Equipment{
		ID:              primitive.NewObjectID(),
		OrganizationID:  orgID,
		Name:            name,
		Status:          models.EquipmentActive,
		UsageHours:      1200,
		NextMaintenance: nextMaintenance,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.insert(ctx, indexes.Equipment, eq)
	return eq
}

// CreateTraining inserts a test training assignment for a user.
func (f *Fixtures) CreateTraining(ctx context.Context, orgID, userID primitive.ObjectID, topic, status string) models.Training {
	f.t.Helper()

	now := time.Now().UTC()
	tr := models.Training{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		UserID:         userID,
		TrainingType:   "Safety",
		Topic:          topic,
		Status:         status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, indexes.Training, tr)
	return tr
}

// CreateFeedback inserts a test customer feedback record.
func (f *Fixtures) CreateFeedback(ctx context.Context, orgID primitive.ObjectID, text string) models.CustomerFeedback {
	f.t.Helper()

	fb := models.CustomerFeedback{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		CustomerName:   "Fixture Customer",
		FeedbackText:   text,
		Category:       "Product",
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, indexes.CustomerFeedback, fb)
	return fb
}

func (f *Fixtures) insert(ctx context.Context, collection string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert fixture into %s: %v", collection, err)
	}
}
