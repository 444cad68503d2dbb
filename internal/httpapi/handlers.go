package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"samecast/internal/comparison"
	"samecast/internal/images"
	"samecast/internal/logging"
	"samecast/internal/metadata"
	"samecast/internal/services"
	"samecast/internal/store"
	"samecast/internal/tmdb"
)

type searchResponse struct {
	Results []metadata.SearchResult `json:"results"`
}

type suggestionsResponse struct {
	Suggestions []*store.Suggestion `json:"suggestions"`
}

type statusResponse struct {
	Status string      `json:"status"`
	Cache  store.Stats `json:"cache"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.deps.Titles.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, searchResponse{Results: results})
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	mediaType, err := metadata.ParseMediaType(chi.URLParam(r, "mediaType"))
	if err != nil {
		writeError(w, s.logger, http.StatusBadRequest, "media type must be movie or tv")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, s.logger, http.StatusBadRequest, "invalid title id")
		return
	}
	details, err := s.deps.Titles.GetDetails(r.Context(), id, mediaType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, details)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	idA := parseID(q.Get("title_id_1"))
	idB := parseID(q.Get("title_id_2"))
	typeA, typeB, err := comparison.ValidatePair(idA, strings.TrimSpace(q.Get("media_type_1")), idB, strings.TrimSpace(q.Get("media_type_2")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	report, err := s.deps.Comparer.FindShared(r.Context(), idA, typeA, idB, typeB)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, report)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.deps.Records.ListSuggestions(r.Context(), true)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Records.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, statusResponse{Status: "ok", Cache: stats})
}

func (s *Server) handleImage(kind images.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.deps.Images.Serve(w, r, kind, chi.URLParam(r, "file"))
	}
}

// writeServiceError maps error markers onto HTTP statuses. Bodies carry only
// user-safe messages; the detailed error goes to the log.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *comparison.InputError
	status := http.StatusBadGateway
	message := services.UserMessage(err)
	switch {
	case errors.As(err, &inputErr):
		status = http.StatusBadRequest
		message = inputErr.Message
	case errors.Is(err, services.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "invalid request"
	case errors.Is(err, services.ErrNotFound), tmdb.IsStatus(err, http.StatusNotFound):
		status = http.StatusNotFound
		message = services.UserMessage(services.ErrNotFound)
	case errors.Is(err, services.ErrConfiguration):
		status = http.StatusInternalServerError
	case errors.Is(err, services.ErrUpstreamUnavailable), errors.Is(err, services.ErrMalformedPayload):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	log := logging.WithContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		log.Error("request error", logging.String("path", r.URL.Path), logging.Int("status", status), logging.Error(err))
	} else {
		log.Debug("request rejected", logging.String("path", r.URL.Path), logging.Int("status", status), logging.Error(err))
	}
	writeError(w, s.logger, status, message)
}

func parseID(value string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logging.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, map[string]string{"error": message})
}
