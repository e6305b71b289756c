package server

import (
	"context"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"

	"github.com/masmgr/gitsymphony/internal/fetch"
	"github.com/masmgr/gitsymphony/internal/git"
	"github.com/masmgr/gitsymphony/internal/music"
	"github.com/masmgr/gitsymphony/internal/record"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Route paths.
const (
	PathAnalyze = "/api/analyze"
	PathHealth  = "/api/health"
	PathNotes   = "/api/notes"
	PathDemo    = "/api/demo"
)

// Error messages returned in the "error" field.
const (
	msgPathRequired     = "Repository path is required"
	msgNotRepository    = "Not a valid git repository"
	msgCloneFailed      = "Failed to clone repository"
	msgAnalyzeFailed    = "Failed to analyze repository"
	msgInvalidBody      = "Invalid request body"
	msgInvalidCount     = "count must be a positive integer"
	msgMethodNotAllowed = "Method not allowed"
)

// Fetcher reads commit history for the analyze endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*fetch.Result, error)
}

// API implements the HTTP handlers.
type API struct {
	fetcher Fetcher
	log     logze.Logger
}

// NewAPI creates the handlers around fetcher.
func NewAPI(fetcher Fetcher) *API {
	return &API{
		fetcher: fetcher,
		log:     logze.With("component", "api"),
	}
}

// Register passes every route with its method to handle.
func (a *API) Register(handle func(path string, h http.HandlerFunc)) {
	handle(PathAnalyze, a.only(http.MethodPost, a.handleAnalyze))
	handle(PathHealth, a.only(http.MethodGet, a.handleHealth))
	handle(PathNotes, a.only(http.MethodPost, a.handleNotes))
	handle(PathDemo, a.only(http.MethodGet, a.handleDemo))
}

// Handler returns the routes on a plain mux, without CORS.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.Register(func(path string, h http.HandlerFunc) { mux.HandleFunc(path, h) })
	return mux
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type analyzeRequest struct {
	RepoPath string `json:"repoPath"`
}

type notesRequest struct {
	Commits []record.Commit `json:"commits"`
}

type notesResponse struct {
	Events []music.Event `json:"events"`
}

func (a *API) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !a.readJSON(w, r, &req) {
		return
	}
	if req.RepoPath == "" {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgPathRequired})
		return
	}

	res, err := a.fetcher.Fetch(r.Context(), req.RepoPath)
	switch {
	case err == nil:
		a.writeJSON(w, http.StatusOK, res)
	case errm.Is(err, fetch.ErrEmptyLocation):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgPathRequired})
	case errm.Is(err, git.ErrNotRepository):
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgNotRepository})
	case errm.Is(err, git.ErrCloneFailed):
		a.log.Warn("clone failed", "repo", req.RepoPath, "error", err.Error())
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgCloneFailed, Details: err.Error()})
	default:
		a.log.Err(err, "analyze repository", "repo", req.RepoPath)
		a.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgAnalyzeFailed, Details: err.Error()})
	}
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !a.readJSON(w, r, &req) {
		return
	}
	events := music.MapAll(req.Commits)
	if events == nil {
		events = []music.Event{}
	}
	a.writeJSON(w, http.StatusOK, notesResponse{Events: events})
}

func (a *API) handleDemo(w http.ResponseWriter, r *http.Request) {
	count := record.DefaultSyntheticCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidCount})
			return
		}
		count = min(n, MaxDemoCommits)
	}
	a.writeJSON(w, http.StatusOK, fetch.Synthesize("demo", count, nil))
}

// readJSON decodes the request body into v, answering 400 on failure.
func (a *API) readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := servex.NewContext(w, r).Read()
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody, Details: err.Error()})
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, v); err != nil {
		a.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody, Details: err.Error()})
		return false
	}
	return true
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.Err(err, "encode response")
		status = http.StatusInternalServerError
		data = []byte(`{"error":"` + msgAnalyzeFailed + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// only rejects methods other than method with a JSON 405.
func (a *API) only(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			a.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed})
			return
		}
		next(w, r)
	}
}
