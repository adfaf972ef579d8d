package indexes_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/anvarov/qmshub/internal/app/system/indexes"
	"github.com/anvarov/qmshub/internal/testutil"
)

func TestKeySig(t *testing.T) {
	d := indexes.Descriptor{
		Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}},
	}
	if got := d.KeySig(); got != "organization_id:1, status:1" {
		t.Errorf("KeySig() = %q", got)
	}

	desc := indexes.Descriptor{Keys: bson.D{{Key: "risk_score", Value: -1}}}
	if got := desc.KeySig(); got != "risk_score:-1" {
		t.Errorf("KeySig() = %q", got)
	}
}

// The catalogue must stay internally consistent: unique names per
// collection, non-empty keys, and every provisioned collection named.
func TestCatalog(t *testing.T) {
	all := indexes.All()
	if len(all) == 0 {
		t.Fatal("empty catalogue")
	}

	collections := map[string]bool{}
	seen := map[string]bool{}
	for _, d := range all {
		if d.Collection == "" || d.Name == "" {
			t.Errorf("descriptor with empty collection or name: %+v", d)
		}
		if len(d.Keys) == 0 {
			t.Errorf("descriptor %s/%s has no keys", d.Collection, d.Name)
		}
		key := d.Collection + "/" + d.Name
		if seen[key] {
			t.Errorf("duplicate descriptor %s", key)
		}
		seen[key] = true
		collections[d.Collection] = true
	}

	for _, coll := range []string{
		indexes.Users, indexes.Organizations, indexes.Documents, indexes.Risks,
		indexes.Policies, indexes.Suppliers, indexes.Equipment, indexes.NonConformities,
		indexes.Training, indexes.Audits, indexes.KPIs, indexes.Notifications,
		indexes.AIAgentLogs, indexes.CustomerFeedback,
	} {
		if !collections[coll] {
			t.Errorf("collection %q has no descriptors", coll)
		}
	}
	if len(collections) != 14 {
		t.Errorf("catalogue covers %d collections, want 14", len(collections))
	}
}

func TestEnsure_CreatesAndReuses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	d := indexes.Descriptor{
		Collection: "widgets",
		Name:       "uniq_widgets_code",
		Keys:       bson.D{{Key: "code", Value: 1}},
		Unique:     true,
	}

	// Creating on a collection that does not exist yet must work, and a
	// second application must be a no-op.
	for i := 0; i < 2; i++ {
		if err := indexes.Ensure(ctx, db, d); err != nil {
			t.Fatalf("Ensure pass %d: %v", i+1, err)
		}
	}

	cursor, err := db.Collection("widgets").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var specs []bson.M
	if err := cursor.All(ctx, &specs); err != nil {
		t.Fatalf("decode specs: %v", err)
	}
	if len(specs) != 2 { // _id plus ours
		t.Fatalf("got %d indexes, want 2: %v", len(specs), specs)
	}
}

func TestEnsure_UniquenessChangeRecreates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	nonUnique := indexes.Descriptor{
		Collection: "widgets",
		Name:       "idx_widgets_code",
		Keys:       bson.D{{Key: "code", Value: 1}},
	}
	if err := indexes.Ensure(ctx, db, nonUnique); err != nil {
		t.Fatalf("Ensure non-unique: %v", err)
	}

	unique := nonUnique
	unique.Name = "uniq_widgets_code"
	unique.Unique = true
	if err := indexes.Ensure(ctx, db, unique); err != nil {
		t.Fatalf("Ensure unique over non-unique: %v", err)
	}

	cursor, err := db.Collection("widgets").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	var specs []bson.M
	if err := cursor.All(ctx, &specs); err != nil {
		t.Fatalf("decode specs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d indexes, want 2 after recreate: %v", len(specs), specs)
	}
	for _, s := range specs {
		if s["name"] == "_id_" {
			continue
		}
		if s["name"] != "uniq_widgets_code" {
			t.Errorf("surviving index name: %v, want uniq_widgets_code", s["name"])
		}
		if u, _ := s["unique"].(bool); !u {
			t.Error("surviving index is not unique")
		}
	}
}

func TestEnsure_FullCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	for _, d := range indexes.All() {
		if err := indexes.Ensure(ctx, db, d); err != nil {
			t.Fatalf("Ensure %s/%s: %v", d.Collection, d.Name, err)
		}
	}
}
