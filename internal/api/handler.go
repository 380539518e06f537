package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/critnet/internal/config"
	"github.com/gyaneshwarpardhi/critnet/internal/engine"
	"github.com/gyaneshwarpardhi/critnet/internal/input"
	"github.com/gyaneshwarpardhi/critnet/internal/metrics"
)

const maxUploadBytes = 32 << 20

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/analyses", h.runAnalysis)
	h.mux.HandleFunc("POST /v1/analyses/async", h.submitAnalysis)
	h.mux.HandleFunc("GET /v1/analyses/{id}", h.getAnalysis)
	h.mux.HandleFunc("POST /v1/analyses/csv", h.runCSVAnalysis)
	h.mux.HandleFunc("GET /v1/config", h.getConfig)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// POST /v1/analyses — synchronous analysis of an inline graph.
func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request) {
	var body analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	res, err := h.eng.RunSync(r.Context(), body.toEngine())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /v1/analyses/async — queue an analysis, return a job ID to poll.
func (h *Handler) submitAnalysis(w http.ResponseWriter, r *http.Request) {
	var body analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	id, err := h.eng.RunAsync(body.toEngine())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": id,
		"status": engine.JobQueued,
	})
}

// GET /v1/analyses/{id} — status and, once done, result of an async job.
func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	job, ok := h.eng.Job(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no job %q", id))
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// POST /v1/analyses/csv — synchronous analysis of an uploaded CSV pair.
// The links file is required, the alpha column optional; analysis parameters
// ride along as form values. Malformed cells do not abort the load, they
// come back in the warnings list.
func (h *Handler) runCSVAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %s", err))
		return
	}
	linksFile, _, err := r.FormFile("links")
	if err != nil {
		writeError(w, http.StatusBadRequest, "links file is required")
		return
	}
	defer linksFile.Close()

	var alpha io.Reader
	if alphaFile, _, err := r.FormFile("alpha"); err == nil {
		defer alphaFile.Close()
		alpha = alphaFile
	}

	g, weights, loadErr := input.Load(r.Context(), linksFile, alpha)
	if g == nil {
		writeError(w, http.StatusUnprocessableEntity, loadErr.Error())
		return
	}

	req := &engine.Request{Graph: g, Weights: weights}
	if err := paramsFromForm(r, req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.eng.RunSync(r.Context(), req)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":   res,
		"warnings": inputWarnings(loadErr),
	})
}

// paramsFromForm fills analysis parameters from multipart form values.
// Absent values stay zero and fall back to the configured defaults.
func paramsFromForm(r *http.Request, req *engine.Request) error {
	if v := r.FormValue("threads"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("threads %q is not an integer", v)
		}
		req.Threads = n
	}
	if v := r.FormValue("iterations"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("iterations %q is not a positive integer", v)
		}
		req.Iterations = n
	}
	if v := r.FormValue("off_chance"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("off_chance %q is not a number", v)
		}
		req.OffChance = &p
	}
	if v := r.FormValue("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("seed %q is not an integer", v)
		}
		req.Seed = n
	}
	req.Rule = r.FormValue("rule")
	req.Order = r.FormValue("order")
	return nil
}

// GET /v1/config — the effective configuration.
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.Config())
}

// POST /v1/config/reload — re-read the config from disk and swap it in.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := config.Validate(cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.eng.SwapConfig(cfg)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"version":  cfg.Version,
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if analysis queue >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
