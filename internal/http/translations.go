package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-pim/internal/intercept"
	"github.com/goliatone/go-pim/internal/translations"
)

type recordPayload struct {
	Table      string `json:"tablaReferencia"`
	RowID      int64  `json:"idReferencia"`
	Field      string `json:"campo"`
	LanguageID int64  `json:"idiomaId"`
	Value      string `json:"valor"`
	UserID     int64  `json:"usuarioId,omitempty"`
}

type recordValuePayload struct {
	Value  string `json:"valor"`
	UserID int64  `json:"usuarioId,omitempty"`
}

type translatePayload struct {
	Text      string `json:"text"`
	TargetISO string `json:"target"`
}

type translateResponse struct {
	Text    string `json:"text"`
	Outcome string `json:"outcome"`
}

func (api *AdminAPI) registerTranslationRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "translations")
	mux.HandleFunc("GET "+root, api.handleRecordList)
	mux.HandleFunc("POST "+root, api.handleRecordUpsert)
	mux.HandleFunc("GET "+root+"/{id}", api.handleRecordGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleRecordUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleRecordDelete)

	mux.HandleFunc("GET "+joinPath(base, "languages"), api.handleLanguageList)
	mux.HandleFunc("POST "+joinPath(base, "translate"), api.handleTranslate)
}

func (api *AdminAPI) handleRecordList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	limit := parseIntQuery(r.URL.Query().Get("limit"), 50)
	offset := parseIntQuery(r.URL.Query().Get("offset"), 0)

	records, err := api.store.List(r.Context(), table, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *AdminAPI) handleRecordUpsert(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload recordPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	record := &translations.Record{
		Table:      payload.Table,
		RowID:      payload.RowID,
		Field:      payload.Field,
		LanguageID: payload.LanguageID,
		Value:      payload.Value,
		CreatedBy:  payload.UserID,
	}
	stored, err := api.store.Upsert(r.Context(), record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (api *AdminAPI) handleRecordGet(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	record, err := api.store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleRecordUpdate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	var payload recordValuePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	var modifiedBy *int64
	if payload.UserID != 0 {
		modifiedBy = &payload.UserID
	}
	record, err := api.store.UpdateValue(r.Context(), id, payload.Value, modifiedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleRecordDelete(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid id"})
		return
	}
	if err := api.store.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (api *AdminAPI) handleLanguageList(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	languages, err := api.store.ListActiveLanguages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, languages)
}

// handleTranslate translates ad-hoc text for the language named either in
// the payload or by the language header.
func (api *AdminAPI) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.engine == nil || api.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	var payload translatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}
	if strings.TrimSpace(payload.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "text is required"})
		return
	}

	targetISO := strings.TrimSpace(payload.TargetISO)
	if targetISO == "" {
		languageID, active, err := intercept.ParseLanguageHeader(r, api.languageHeader, api.nativeID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !active {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "bad_request", Message: "target language is required",
			})
			return
		}
		language, err := api.store.GetLanguage(r.Context(), languageID)
		if err != nil {
			writeError(w, err)
			return
		}
		targetISO = language.ISO
	}

	result, err := api.engine.Translate(r.Context(), payload.Text, targetISO)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{Text: result.Text, Outcome: string(result.Outcome)})
}
