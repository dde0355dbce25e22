package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-dns-assistant/internal/domain/model"
	"telegram-dns-assistant/internal/domain/ports/repository"
)

// Server exposes operational endpoints: liveness, metrics, and the
// analysis history behind admin auth.
type Server struct {
	records repository.AnalysisRecordRepository
	auth    *AuthManager
	log     *zerolog.Logger
}

func NewServer(records repository.AnalysisRecordRepository, auth *AuthManager, logger *zerolog.Logger) *Server {
	return &Server{records: records, auth: auth, log: logger}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/login", s.handleLogin)
	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Get("/api/v1/reports", s.handleReports)
	})

	return r
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	token, err := s.auth.Mint(body.APIKey)
	if err != nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var (
		rows []*model.AnalysisRecord
		err  error
	)
	if zone := r.URL.Query().Get("zone"); zone != "" {
		rows, err = s.records.ListByZone(ctx, zone, limit)
	} else {
		rows, err = s.records.ListRecent(ctx, limit)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("list reports failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	out := make([]recordJSON, 0, len(rows))
	for _, rec := range rows {
		out = append(out, recordJSON{
			ID:        rec.ID,
			Zone:      rec.Zone,
			Kind:      string(rec.Kind),
			OK:        rec.OK,
			Message:   rec.Message,
			CreatedAt: rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type recordJSON struct {
	ID        string    `json:"id"`
	Zone      string    `json:"zone"`
	Kind      string    `json:"kind"`
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
