package http

import (
	"net/http"

	"github.com/goliatone/go-pim/internal/literals"
)

type literalListResponse struct {
	Keys  []literals.KeyRow `json:"keys"`
	Total int               `json:"total"`
}

type literalReplacePayload struct {
	Values map[int64]string `json:"values"`
}

func (api *AdminAPI) registerLiteralRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "literals")
	mux.HandleFunc("GET "+root, api.handleLiteralList)
	mux.HandleFunc("PUT "+root+"/{key}", api.handleLiteralReplace)
	mux.HandleFunc("DELETE "+root+"/{key}", api.handleLiteralDelete)
	mux.HandleFunc("GET "+root+"/bundle/{iso}", api.handleLiteralBundle)
}

func (api *AdminAPI) handleLiteralList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.literals == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	limit := parseIntQuery(r.URL.Query().Get("limit"), 50)
	offset := parseIntQuery(r.URL.Query().Get("offset"), 0)

	rows, err := api.literals.ListKeys(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	total, err := api.literals.CountKeys(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []literals.KeyRow{}
	}
	writeJSON(w, http.StatusOK, literalListResponse{Keys: rows, Total: total})
}

func (api *AdminAPI) handleLiteralReplace(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.literals == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	key := r.PathValue("key")
	var payload literalReplacePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if err := api.literals.Replace(r.Context(), key, payload.Values); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleLiteralDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.literals == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	if err := api.literals.DeleteKey(r.Context(), r.PathValue("key")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleLiteralBundle(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.literals == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	bundle, err := api.literals.Bundle(r.Context(), r.PathValue("iso"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}
