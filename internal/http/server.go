package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rotisserie/eris"

	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/domain"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/storage"
	"github.com/denisok6893-rgb/wholesale-deal-engine/internal/usecase"
)

type Server struct {
	Desk *usecase.DealDesk
}

func NewServer(desk *usecase.DealDesk) *Server {
	return &Server{Desk: desk}
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	r.HandleFunc("/match", s.handleMatch).Methods(http.MethodPost)

	props := r.PathPrefix("/properties").Subrouter()
	props.HandleFunc("", s.handlePropertiesList).Methods(http.MethodGet)
	props.HandleFunc("", s.handlePropertiesCreate).Methods(http.MethodPost)
	props.HandleFunc("/{id}", s.handlePropertyGet).Methods(http.MethodGet)
	props.HandleFunc("/{id}", s.handlePropertyArchive).Methods(http.MethodDelete)
	props.HandleFunc("/{id}/evaluate", s.handlePropertyEvaluate).Methods(http.MethodPost)
	props.HandleFunc("/{id}/matches", s.handlePropertyMatches).Methods(http.MethodGet)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type EvaluateRequest struct {
	Property    storage.Row   `json:"property"`
	Comparables []storage.Row `json:"comparables"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Property == nil {
		writeError(w, http.StatusBadRequest, "property is required")
		return
	}
	ev := s.Desk.Evaluate(storage.DecodeProperty(req.Property), storage.DecodeComparables(req.Comparables))
	writeJSON(w, http.StatusOK, ev)
}

type MatchRequest struct {
	Property storage.Row   `json:"property"`
	Buyers   []storage.Row `json:"buyers"`
}

type MatchResponse struct {
	PropertyID string               `json:"property_id"`
	Total      int                  `json:"total"`
	Results    []domain.MatchResult `json:"results"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	var buyers []domain.BuyerRecord
	if req.Buyers != nil {
		buyers = storage.DecodeBuyers(req.Buyers)
	}
	p := storage.DecodeProperty(req.Property)

	results, err := s.Desk.Match(p, buyers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchResponse{PropertyID: p.ID, Total: len(results), Results: results})
}

type PropertiesListResponse struct {
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Total  int                     `json:"total"`
	Items  []domain.PropertyRecord `json:"items"`
}

func (s *Server) handlePropertiesList(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 20, 0)
	q := r.URL.Query()

	f := domain.PropertyFilter{
		Limit:     limit,
		Offset:    offset,
		Location:  strings.TrimSpace(q.Get("location")),
		MinPrice:  parseFloat(q.Get("min_price")),
		MaxPrice:  parseFloat(q.Get("max_price")),
		Status:    domain.PropertyStatus(strings.ToLower(q.Get("status"))),
		DealClass: domain.Recommendation(strings.ToUpper(q.Get("deal_class"))),
		Sort:      q.Get("sort"),
	}

	items, total, err := s.Desk.ListProperties(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PropertiesListResponse{
		Limit:  limit,
		Offset: offset,
		Total:  total,
		Items:  items,
	})
}

func (s *Server) handlePropertiesCreate(w http.ResponseWriter, r *http.Request) {
	var row storage.Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := s.Desk.CreateProperty(r.Context(), storage.DecodeProperty(row))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePropertyGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.Desk.GetProperty(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Properties are archived, never removed.
func (s *Server) handlePropertyArchive(w http.ResponseWriter, r *http.Request) {
	if err := s.Desk.ArchiveProperty(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(domain.StatusArchived)})
}

func (s *Server) handlePropertyEvaluate(w http.ResponseWriter, r *http.Request) {
	ev, err := s.Desk.EvaluateProperty(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handlePropertyMatches(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	results, err := s.Desk.MatchProperty(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MatchResponse{PropertyID: id, Total: len(results), Results: results})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeError(w, status, errorMessage(err, status))
}

func statusFor(err error) int {
	switch {
	case eris.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case eris.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case eris.Is(err, domain.ErrMissingCollaborator):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal_error"
	}
	return err.Error()
}

func parseLimitOffset(r *http.Request, defLimit, defOffset int) (int, int) {
	q := r.URL.Query()

	limit := defLimit
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}

	return limit, offset
}

func parseFloat(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
