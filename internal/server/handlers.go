package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/championcp/worklog-search/internal/models"
)

var errInvalidUserID = errors.New("user_id query parameter is required")

type globalSearchRequest struct {
	UserID int64             `json:"user_id"`
	Query  string            `json:"query"`
	Type   models.EntityType `json:"type,omitempty"`
	Limit  int               `json:"limit,omitempty"`
	Offset int               `json:"offset,omitempty"`
}

type advancedSearchRequest struct {
	UserID int64 `json:"user_id"`
	models.AdvancedSearchCriteria
}

func (s *Server) handleGlobalSearch(w http.ResponseWriter, r *http.Request) {
	var req globalSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		s.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Type == "" {
		req.Type = models.ScopeAll
	}
	if req.Type != models.ScopeAll && !req.Type.Valid() {
		s.respondError(w, http.StatusBadRequest, "unknown entity type: "+string(req.Type))
		return
	}
	s.logger.Debug("search request",
		zap.Int64("user_id", req.UserID),
		zap.String("query", req.Query),
		zap.String("type", string(req.Type)),
	)
	response, err := s.engine.GlobalSearch(
		r.Context(), req.UserID, req.Query, req.Type, s.clampLimit(req.Limit), req.Offset,
	)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleAdvancedSearch(w http.ResponseWriter, r *http.Request) {
	var req advancedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID <= 0 {
		s.respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	criteria := req.AdvancedSearchCriteria
	criteria.Limit = s.clampLimit(criteria.Limit)
	s.logger.Debug("advanced search request",
		zap.Int64("user_id", req.UserID),
		zap.String("keywords", criteria.Keywords),
	)
	response, err := s.engine.AdvancedSearch(r.Context(), req.UserID, &criteria)
	if err != nil {
		s.logger.Error("advanced search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	partial := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", s.config().Search.SuggestionLimit)
	suggestions, err := s.storage.Suggest(r.Context(), userID, partial, limit)
	if err != nil {
		s.logger.Error("suggestion lookup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := s.clampLimit(queryInt(r, "limit", 0))
	entries, err := s.engine.GetHistory(r.Context(), userID, limit)
	if err != nil {
		s.logger.Error("history lookup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []*models.SearchHistoryEntry{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"history": entries})
}

func (s *Server) handleHistoryCleanup(w http.ResponseWriter, r *http.Request) {
	userID, err := queryUserID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	days := queryInt(r, "days", s.config().History.RetentionDays)
	removed, err := s.engine.CleanupHistory(r.Context(), userID, days)
	if err != nil {
		s.logger.Error("history cleanup failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clampLimit keeps a requested page size inside the configured ceiling.
// Zero falls through so the engine applies its default.
func (s *Server) clampLimit(limit int) int {
	max := s.config().Search.MaxLimit
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func queryUserID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("user_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidUserID
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
