// internal/app/features/agentapi/handler.go
package agentapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/anvarov/qmshub/internal/app/agents"
	agentlogstore "github.com/anvarov/qmshub/internal/app/store/agentlogs"
	"github.com/anvarov/qmshub/internal/app/system/authz"
	"github.com/anvarov/qmshub/internal/app/system/httpjson"
	"github.com/anvarov/qmshub/internal/app/system/llm"
	"github.com/anvarov/qmshub/internal/app/system/paging"
	"github.com/anvarov/qmshub/internal/domain/models"
)

type Handler struct {
	Registry *agents.Registry
	Executor *agents.Executor
	Logs     *agentlogstore.Store
	Log      *zap.Logger
}

func NewHandler(registry *agents.Registry, executor *agents.Executor, logs *agentlogstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Registry: registry, Executor: executor, Logs: logs, Log: logger}
}

// List handles GET /agents, naming the agents enabled for this deployment.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	httpjson.OK(w, map[string]any{"status": "success", "agents": h.Registry.Names()})
}

// Run handles POST /agents/{name}/run. The run is synchronous; the
// response carries the persisted run log.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	name := chi.URLParam(r, "name")
	agent, ok := h.Registry.Get(name)
	if !ok {
		httpjson.Error(w, http.StatusNotFound, "unknown or disabled agent")
		return
	}

	run, err := h.Executor.Execute(r.Context(), agent, orgID)
	if err != nil {
		h.Log.Error("agent run log persist failed", zap.String("agent", name), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not run agent")
		return
	}
	if errors.Is(run.Err, llm.ErrUnavailable) {
		httpjson.Error(w, http.StatusServiceUnavailable, "AI model not configured")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "run": run.Entry})
}

// RunAll handles POST /agents/run-all, executing every enabled agent in
// order and returning all run logs.
func (h *Handler) RunAll(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	runs := make([]models.AgentLog, 0, len(h.Registry.Names()))
	for _, name := range h.Registry.Names() {
		agent, _ := h.Registry.Get(name)
		run, err := h.Executor.Execute(r.Context(), agent, orgID)
		if err != nil {
			h.Log.Error("agent run log persist failed", zap.String("agent", name), zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "could not run agents")
			return
		}
		runs = append(runs, run.Entry)
	}
	httpjson.OK(w, map[string]any{"status": "success", "runs": runs})
}

// ListLogs handles GET /agents/logs with an optional ?agent= filter.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	orgID, ok := authz.OrgScope(r)
	if !ok {
		httpjson.Error(w, http.StatusBadRequest, "no organization scope")
		return
	}

	agentName := r.URL.Query().Get("agent")
	page := paging.Parse(r)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)

	logs, err := h.Logs.ListForOrg(r.Context(), orgID, agentName, opts)
	if err != nil {
		h.Log.Error("agent log list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list agent runs")
		return
	}

	filter := bson.M{"organization_id": orgID}
	if agentName != "" {
		filter["agent_name"] = agentName
	}
	total, err := h.Logs.Count(r.Context(), filter)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "could not list agent runs")
		return
	}
	httpjson.List(w, logs, total, page.Skip, page.Limit)
}

// GetLog handles GET /agents/logs/{runID}.
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Logs.GetByRunID(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "agent run")
			return
		}
		h.Log.Error("agent log load failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load agent run")
		return
	}
	orgID, ok := authz.OrgScope(r)
	if !ok || entry.OrganizationID == nil || *entry.OrganizationID != orgID {
		httpjson.NotFound(w, "agent run")
		return
	}
	httpjson.OK(w, map[string]any{"status": "success", "run": entry})
}
