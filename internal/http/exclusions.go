package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-pim/internal/exclusions"
)

type rulePayload struct {
	Kind        string  `json:"tipoExclusion"`
	Value       string  `json:"valor"`
	Description *string `json:"descripcion,omitempty"`
	Active      string  `json:"activoSn"`
	UserID      int64   `json:"usuarioId,omitempty"`
}

type ruleListResponse struct {
	Rules []*exclusions.Rule `json:"rules"`
	Total int                `json:"total"`
}

func (api *AdminAPI) registerExclusionRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "exclusions")
	mux.HandleFunc("GET "+root, api.handleRuleList)
	mux.HandleFunc("POST "+root, api.handleRuleCreate)
	mux.HandleFunc("GET "+root+"/{id}", api.handleRuleGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleRuleUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleRuleDelete)
}

// parseRuleFilter builds a filter from query parameters. Supported:
// kind=<tipoExclusion>, active=S|N, q=<substring of valor>, joined with AND.
func parseRuleFilter(r *http.Request) *exclusions.Filter {
	filter := &exclusions.Filter{Conjunction: exclusions.ConjunctionAnd}
	if kind := strings.TrimSpace(r.URL.Query().Get("kind")); kind != "" {
		filter.Conditions = append(filter.Conditions, exclusions.Condition{
			Field: "tipoExclusion", Op: exclusions.FilterOpEquals, Value: kind,
		})
	}
	if active := strings.TrimSpace(r.URL.Query().Get("active")); active != "" {
		filter.Conditions = append(filter.Conditions, exclusions.Condition{
			Field: "activoSn", Op: exclusions.FilterOpEquals, Value: active,
		})
	}
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		filter.Conditions = append(filter.Conditions, exclusions.Condition{
			Field: "valor", Op: exclusions.FilterOpContains, Value: q,
		})
	}
	if len(filter.Conditions) == 0 {
		return nil
	}
	return filter
}

func (api *AdminAPI) handleRuleList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	filter := parseRuleFilter(r)
	opts := exclusions.ListOptions{
		Filter: filter,
		Order:  r.URL.Query().Get("order"),
		Limit:  parseIntQuery(r.URL.Query().Get("limit"), 0),
		Offset: parseIntQuery(r.URL.Query().Get("offset"), 0),
	}
	rules, err := api.rules.List(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := api.rules.Count(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ruleListResponse{Rules: rules, Total: total})
}

func (api *AdminAPI) handleRuleCreate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload rulePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	rule := &exclusions.Rule{
		Kind:        exclusions.RuleKind(payload.Kind),
		Value:       payload.Value,
		Description: payload.Description,
		Active:      payload.Active,
		CreatedBy:   payload.UserID,
	}
	if rule.Active == "" {
		rule.Active = "S"
	}
	created, err := api.rules.Create(r.Context(), rule)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handleRuleGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	rule, err := api.rules.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (api *AdminAPI) handleRuleUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	existing, err := api.rules.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	var payload rulePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if payload.Kind != "" {
		existing.Kind = exclusions.RuleKind(payload.Kind)
	}
	if payload.Value != "" {
		existing.Value = payload.Value
	}
	if payload.Description != nil {
		existing.Description = payload.Description
	}
	if payload.Active != "" {
		existing.Active = payload.Active
	}
	if payload.UserID != 0 {
		existing.ModifiedBy = &payload.UserID
	}
	updated, err := api.rules.Update(r.Context(), existing)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handleRuleDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.rules == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	if err := api.rules.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
