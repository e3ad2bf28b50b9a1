package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/store"
)

// Queries is the read side of *store.Store.
type Queries interface {
	CompaniesWithVacancyCounts(ctx context.Context) ([]store.CompanyVacancyCount, error)
	AllVacancies(ctx context.Context) ([]store.VacancyListing, error)
	AverageSalary(ctx context.Context) (float64, error)
	VacanciesAboveAverageSalary(ctx context.Context) ([]store.VacancyListing, error)
	VacanciesByKeyword(ctx context.Context, keyword string) ([]store.VacancyListing, error)
}

type Server struct {
	router  *chi.Mux
	queries Queries
}

func NewServer(queries Queries) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		queries: queries,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/companies", s.handleCompanies)
	s.router.Route("/vacancies", func(r chi.Router) {
		r.Get("/", s.handleAllVacancies)
		r.Get("/average-salary", s.handleAverageSalary)
		r.Get("/above-average", s.handleAboveAverage)
		r.Get("/search", s.handleSearch)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("starting api server")

	emergencyShutdown := make(chan error, 1)
	go func() {
		emergencyShutdown <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-emergencyShutdown:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("encode response failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
