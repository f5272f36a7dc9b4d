package http

import (
	"net/http"
)

func (api *AdminAPI) registerReconcileRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "reconcile")
	mux.HandleFunc("POST "+root+"/run", api.handleReconcileRun)
	mux.HandleFunc("POST "+root+"/schedule", api.handleReconcileSchedule)
}

// handleReconcileRun executes a reconciliation pass inline and returns the
// full run report. A run that finished with per-field errors still returns
// 200; the report status reflects the partial outcome.
func (api *AdminAPI) handleReconcileRun(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.runner == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	report, err := api.runner.Run(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (api *AdminAPI) handleReconcileSchedule(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.worker == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	job, err := api.worker.EnqueueNightly(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}
