package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/msto63/ccp/foundation/core/error"
	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/frontend"
	"github.com/msto63/ccp/internal/journal"
	"github.com/msto63/ccp/internal/report"
	"github.com/msto63/ccp/pkg/core/health"
	"github.com/msto63/ccp/pkg/core/version"
)

// maxBodyBytes caps request bodies before JSON decoding.
const maxBodyBytes = 8 << 20

// CheckRequest is the body of POST /api/v1/check and /api/v1/tokens
type CheckRequest struct {
	Source string `json:"source"`
	// ShowTokens overrides the server default for this request.
	ShowTokens *bool `json:"show_tokens,omitempty"`
}

// TokensResponse is the body returned by /api/v1/tokens
type TokensResponse struct {
	Tokens []report.Token     `json:"tokens"`
	Error  *report.Diagnostic `json:"error,omitempty"`
}

// RunsResponse lists journal entries
type RunsResponse struct {
	Runs  []*journal.Entry `json:"runs"`
	Total int              `json:"total"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Handler serves the REST API
type Handler struct {
	checker    *frontend.Checker
	store      journal.Store
	health     *health.Registry
	logger     *mdwlog.Logger
	showTokens bool
}

// NewHandler creates a new API handler. store may be nil.
func NewHandler(checker *frontend.Checker, store journal.Store, registry *health.Registry, logger *mdwlog.Logger, showTokens bool) *Handler {
	return &Handler{
		checker:    checker,
		store:      store,
		health:     registry,
		logger:     logger,
		showTokens: showTokens,
	}
}

// ServeHTTP routes API requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		h.handleRoot(w, r)
	case path == "health":
		h.handleHealth(w, r)
	case path == "check":
		h.handleCheck(w, r)
	case path == "tokens":
		h.handleTokens(w, r)
	case path == "runs":
		h.handleRuns(w, r)
	case strings.HasPrefix(path, "runs/"):
		h.handleRun(w, r, strings.TrimPrefix(path, "runs/"))
	case path == "stats":
		h.handleStats(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not_found", "Endpoint not found", r.URL.Path)
	}
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "ccp",
		"version": version.Release,
		"endpoints": []string{
			"POST /api/v1/check",
			"POST /api/v1/tokens",
			"GET /api/v1/check/ws",
			"GET /api/v1/health",
			"GET /api/v1/runs",
			"GET /api/v1/runs/{id}",
			"GET /api/v1/stats",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	rep := h.health.Check(ctx)
	h.writeJSON(w, rep.HTTPStatus(), rep)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCheck(w, r)
	if !ok {
		return
	}
	showTokens := h.showTokens
	if req.ShowTokens != nil {
		showTokens = *req.ShowTokens
	}

	res := h.check(r.Context(), req.Source)
	h.writeJSON(w, statusFor(res), report.New(res, showTokens))
}

func (h *Handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCheck(w, r)
	if !ok {
		return
	}

	tokens, err := h.checker.Tokenize(r.Context(), req.Source)
	status := http.StatusOK
	if err != nil {
		status = mdwerror.GetCode(err).HTTPStatus()
	}
	h.writeJSON(w, status, TokensResponse{
		Tokens: report.Tokens(tokens),
		Error:  report.Diagnose(err),
	})
}

func (h *Handler) handleRuns(w http.ResponseWriter, r *http.Request) {
	if !h.requireJournal(w, r) {
		return
	}

	filter := journal.Filter{Limit: 20}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer", v)
			return
		}
		filter.Limit = n
	}
	if v := q.Get("outcome"); v != "" {
		outcome, ok := frontend.ParseOutcome(v)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "unknown outcome", v)
			return
		}
		filter.Outcome = outcome.String()
	}
	if v := q.Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_request", "since must be a duration", v)
			return
		}
		filter.Since = time.Now().Add(-d)
	}

	runs, err := h.store.Recent(r.Context(), filter)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	if runs == nil {
		runs = []*journal.Entry{}
	}
	h.writeJSON(w, http.StatusOK, RunsResponse{Runs: runs, Total: len(runs)})
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request, id string) {
	if !h.requireJournal(w, r) {
		return
	}
	entry, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireJournal(w, r) {
		return
	}
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

// check runs source through the checker and records the run.
func (h *Handler) check(ctx context.Context, source string) *frontend.Result {
	res := h.checker.Check(ctx, source)
	if h.store != nil {
		if err := h.store.Record(ctx, journal.FromResult(res)); err != nil {
			h.logger.WarnWithErr("Failed to record run", err, mdwlog.Fields{"run_id": res.RunID})
		}
	}
	return res
}

func (h *Handler) decodeCheck(w http.ResponseWriter, r *http.Request) (CheckRequest, bool) {
	var req CheckRequest
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use POST", "")
		return req, false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "too_large", "Request body too large", "")
			return req, false
		}
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body", err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) requireJournal(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Use GET", "")
		return false
	}
	if h.store == nil {
		h.writeError(w, http.StatusNotFound, "journal_disabled", "Run history is not enabled", "")
		return false
	}
	return true
}

// statusFor answers diagnostics with 200: the check itself succeeded.
// Rejected runs map their error code to a status.
func statusFor(res *frontend.Result) int {
	if res.Outcome != frontend.OutcomeRejected {
		return http.StatusOK
	}
	return mdwerror.GetCode(res.Err).HTTPStatus()
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message, details string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// writeFailure reports a coded error from a lower layer.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	code := mdwerror.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.ErrorWithErr("Request failed", err)
	}
	h.writeError(w, status, strings.ToLower(code.String()), report.Message(err), "")
}
