// internal/app/system/indexes/catalog.go
package indexes

import "go.mongodb.org/mongo-driver/bson"

// Collection names provisioned at startup. Any new resource type must add
// its descriptors here before relying on index-backed query performance.
const (
	Users            = "users"
	Organizations    = "organizations"
	Documents        = "documents"
	Risks            = "risks"
	Policies         = "policies"
	Suppliers        = "suppliers"
	Equipment        = "equipment"
	NonConformities  = "non_conformities"
	Training         = "training"
	Audits           = "audits"
	KPIs             = "kpis"
	Notifications    = "notifications"
	AIAgentLogs      = "ai_agent_logs"
	CustomerFeedback = "customer_feedback"
)

// All returns the complete index catalogue for the fourteen collections.
// The order of descriptors is not significant; each is applied independently.
func All() []Descriptor {
	return []Descriptor{
		// users: email and username are globally unique login identifiers.
		{Collection: Users, Name: "uniq_users_email",
			Keys: bson.D{{Key: "email", Value: 1}}, Unique: true},
		{Collection: Users, Name: "uniq_users_username",
			Keys: bson.D{{Key: "username", Value: 1}}, Unique: true},
		{Collection: Users, Name: "idx_users_org_role",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "role", Value: 1}}},

		// organizations: registration number unique when present.
		{Collection: Organizations, Name: "uniq_orgs_regnum",
			Keys: bson.D{{Key: "registration_number", Value: 1}}, Unique: true, Sparse: true},

		// documents: org-scoped listing by type, plus status and title lookups.
		{Collection: Documents, Name: "idx_docs_org_type",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "doc_type", Value: 1}}},
		{Collection: Documents, Name: "idx_docs_status",
			Keys: bson.D{{Key: "status", Value: 1}}},
		{Collection: Documents, Name: "idx_docs_title",
			Keys: bson.D{{Key: "title", Value: 1}}},

		// risks: org-scoped status filters and score-ordered dashboards.
		{Collection: Risks, Name: "idx_risks_org_status",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},
		{Collection: Risks, Name: "idx_risks_score",
			Keys: bson.D{{Key: "risk_score", Value: -1}}},
		{Collection: Risks, Name: "idx_risks_title",
			Keys: bson.D{{Key: "title", Value: 1}}},

		// policies: org-scoped listing by ISO clause.
		{Collection: Policies, Name: "idx_policies_org_clause",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "iso_clause", Value: 1}}},

		// suppliers: name search and org-scoped status filters.
		{Collection: Suppliers, Name: "idx_suppliers_name",
			Keys: bson.D{{Key: "name", Value: 1}}},
		{Collection: Suppliers, Name: "idx_suppliers_org_status",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},

		// equipment: maintenance-due scans per org.
		{Collection: Equipment, Name: "idx_equipment_org_status",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},
		{Collection: Equipment, Name: "idx_equipment_next_maintenance",
			Keys: bson.D{{Key: "next_maintenance", Value: 1}}},

		// non_conformities: NC numbers are unique per org; open-item lists.
		{Collection: NonConformities, Name: "uniq_nc_org_number",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "nc_number", Value: 1}}, Unique: true},
		{Collection: NonConformities, Name: "idx_nc_org_status",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},

		// training: per-user records and org-scoped status filters.
		{Collection: Training, Name: "idx_training_user",
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Collection: Training, Name: "idx_training_org_status",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},

		// audits: schedule views per org.
		{Collection: Audits, Name: "idx_audits_org_scheduled",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "scheduled_date", Value: 1}}},

		// kpis: org-scoped listing by ISO clause.
		{Collection: KPIs, Name: "idx_kpis_org_clause",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "iso_clause", Value: 1}}},

		// notifications: per-user unread lists, latest first.
		{Collection: Notifications, Name: "idx_notifications_user_read_created",
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}, {Key: "created_at", Value: -1}}},

		// ai_agent_logs: recent runs per org, latest first.
		{Collection: AIAgentLogs, Name: "idx_agentlogs_org_created",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Collection: AIAgentLogs, Name: "idx_agentlogs_agent_created",
			Keys: bson.D{{Key: "agent_name", Value: 1}, {Key: "created_at", Value: -1}}},

		// customer_feedback: org-scoped sentiment dashboards, latest first.
		{Collection: CustomerFeedback, Name: "idx_feedback_org_created",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Collection: CustomerFeedback, Name: "idx_feedback_org_sentiment",
			Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "sentiment", Value: 1}}},
	}
}
