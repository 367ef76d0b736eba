package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/snippetsaver/internal/config"
	"github.com/hyperjump/snippetsaver/internal/models"
	"github.com/hyperjump/snippetsaver/internal/notion"
	"github.com/hyperjump/snippetsaver/internal/relay"
	"github.com/hyperjump/snippetsaver/internal/snippet"
	"github.com/hyperjump/snippetsaver/internal/storage"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const maxListLimit = 100

// SnippetList is the response of GET /api/v1/snippets.
type SnippetList struct {
	Snippets []models.Snippet `json:"snippets"`
	Total    int              `json:"total"`
	Query    string           `json:"query,omitempty"`
	Fuzzy    bool             `json:"fuzzy,omitempty"`
}

// NotionConfigView is the masked credential view.
type NotionConfigView struct {
	IntegrationToken string `json:"integration_token"`
	TargetPageID     string `json:"target_page_id"`
	Configured       bool   `json:"configured"`
}

// ContextMenuRequest is a context-menu invocation on a page.
type ContextMenuRequest struct {
	SelectionText string `json:"selectionText"`
	// SelectionHTML is the selection as a markup fragment. It is only used
	// when SelectionText is empty.
	SelectionHTML string `json:"selectionHtml,omitempty"`
	PageURL       string `json:"pageUrl"`
}

var selectionPolicy = bluemonday.StrictPolicy()

// selectionFromHTML reduces a markup fragment to the text it renders.
func selectionFromHTML(fragment string) string {
	return html.UnescapeString(selectionPolicy.Sanitize(fragment))
}

// Status is the response of GET /api/v1/status.
type Status struct {
	Snippets         int    `json:"snippets"`
	NotionConfigured bool   `json:"notion_configured"`
	CaptureMode      string `json:"capture_mode"`
	DatabasePath     string `json:"database_path"`
	DiskUsageBytes   *int64 `json:"disk_usage_bytes,omitempty"`
}

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	var req relay.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("relay request", zap.String("id", req.ID), zap.String("action", string(req.Action)))
	s.respondJSON(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), req))
}

func (s *Server) handleListSnippets(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	fuzzy, _ := strconv.ParseBool(r.URL.Query().Get("fuzzy"))

	if q == "" {
		all, err := s.snippets.LoadAll(r.Context())
		if err != nil {
			s.logger.Error("list snippets failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.respondJSON(w, http.StatusOK, SnippetList{Snippets: all, Total: len(all)})
		return
	}

	s.logger.Debug("search request", zap.String("query", q), zap.Bool("fuzzy", fuzzy))
	resp, err := s.engine.Search(r.Context(), &models.SearchQuery{Query: q, Limit: maxListLimit, Fuzzy: fuzzy})
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := SnippetList{Snippets: make([]models.Snippet, 0, len(resp.Results)), Query: q, Fuzzy: fuzzy}
	for _, res := range resp.Results {
		out.Snippets = append(out.Snippets, *res.Snippet)
	}
	out.Total = len(out.Snippets)
	s.respondJSON(w, http.StatusOK, out)
}

// handleSearch returns ranked hits with scores. Query params: q, fuzzy, limit.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := &models.SearchQuery{Query: strings.TrimSpace(params.Get("q"))}
	query.Fuzzy, _ = strconv.ParseBool(params.Get("fuzzy"))
	if l := params.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		query.Limit = n
	}
	if err := query.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSnippet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.snippetID(w, r)
	if !ok {
		return
	}
	sn, err := snippet.Get(r.Context(), s.snippets, id)
	if errors.Is(err, snippet.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "snippet not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, sn)
}

func (s *Server) handleDeleteSnippet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.snippetID(w, r)
	if !ok {
		return
	}
	s.logger.Debug("delete snippet request", zap.Int64("id", id))
	res := s.dispatcher.Dispatch(r.Context(), relay.Request{Action: relay.ActionDeleteSnippet, SnippetID: id})
	switch {
	case res.Success:
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	case res.Kind == relay.KindInvalid:
		s.respondError(w, http.StatusNotFound, res.Error)
	default:
		s.logger.Error("deletion failed", zap.String("error", res.Error))
		s.respondError(w, http.StatusInternalServerError, res.Error)
	}
}

func (s *Server) snippetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid snippet id")
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetNotionConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.credentials.Load(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, NotionConfigView{
		IntegrationToken: cfg.MaskedToken(),
		TargetPageID:     cfg.TargetPageID,
		Configured:       cfg.Complete(),
	})
}

func (s *Server) handlePutNotionConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.NotionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.credentials.Save(r.Context(), cfg); err != nil {
		if !cfg.Complete() {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("save credentials failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("notion configuration saved")
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleTestNotionConfig tests the credentials in the body, or the stored ones when the body is empty.
func (s *Server) handleTestNotionConfig(w http.ResponseWriter, r *http.Request) {
	var cfg models.NotionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !cfg.Complete() {
		stored, err := s.credentials.Load(r.Context())
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		cfg = stored
	}

	err := s.notion.TestConnection(r.Context(), cfg)
	switch {
	case err == nil:
		s.respondJSON(w, http.StatusOK, relay.Result{Success: true})
	case errors.Is(err, notion.ErrMissingCredentials):
		s.respondJSON(w, http.StatusBadRequest, relay.Failure(relay.KindConfig, "Please fill in both fields"))
	default:
		kind := relay.KindTransport
		var apiErr *notion.APIError
		if errors.As(err, &apiErr) {
			kind = relay.KindRemote
		}
		s.respondJSON(w, http.StatusBadGateway, relay.Failure(kind, err.Error()))
	}
}

// handleContextMenu answers a context-menu click with the message the page
// side should act on. Only selections produce a message.
func (s *Server) handleContextMenu(w http.ResponseWriter, r *http.Request) {
	var req ContextMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := req.SelectionText
	if text == "" && req.SelectionHTML != "" {
		text = selectionFromHTML(req.SelectionHTML)
	}
	if strings.TrimSpace(text) == "" {
		s.respondError(w, http.StatusBadRequest, "no text selected")
		return
	}
	s.respondJSON(w, http.StatusOK, relay.Request{
		Action: relay.ActionSaveToNotion,
		Text:   text,
		URL:    req.PageURL,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := CollectStatus(r.Context(), s.snippets, s.credentials, s.config)
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

// CollectStatus gathers counts and storage details. It is shared by the daemon
// and by commands that read storage directly.
func CollectStatus(ctx context.Context, snippets snippet.Repository, credentials CredentialStore, cfg *config.Config) (*Status, error) {
	all, err := snippets.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snippets: %w", err)
	}
	creds, err := credentials.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	st := &Status{
		Snippets:         len(all),
		NotionConfigured: creds.Complete(),
		CaptureMode:      cfg.Capture.Mode,
		DatabasePath:     cfg.Storage.DatabasePath,
	}
	if n, err := storage.DatabaseSize(cfg.Storage.DatabasePath); err == nil {
		st.DiskUsageBytes = &n
	}
	return st, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
