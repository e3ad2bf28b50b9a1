package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/baxromumarov/hh-vacancies/internal/store"
)

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	counts, err := s.queries.CompaniesWithVacancyCounts(r.Context())
	if err != nil {
		s.fail(w, r, "Failed to count vacancies", err)
		return
	}
	if counts == nil {
		counts = []store.CompanyVacancyCount{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": counts,
		"total": len(counts),
	})
}

func (s *Server) handleAllVacancies(w http.ResponseWriter, r *http.Request) {
	listings, err := s.queries.AllVacancies(r.Context())
	s.respondListings(w, r, listings, err)
}

func (s *Server) handleAverageSalary(w http.ResponseWriter, r *http.Request) {
	avg, err := s.queries.AverageSalary(r.Context())
	if err != nil {
		s.fail(w, r, "Failed to average salaries", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{"average_salary": avg})
}

func (s *Server) handleAboveAverage(w http.ResponseWriter, r *http.Request) {
	listings, err := s.queries.VacanciesAboveAverageSalary(r.Context())
	s.respondListings(w, r, listings, err)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		respondError(w, http.StatusBadRequest, "keyword is required")
		return
	}
	listings, err := s.queries.VacanciesByKeyword(r.Context(), keyword)
	s.respondListings(w, r, listings, err)
}

func (s *Server) respondListings(w http.ResponseWriter, r *http.Request, listings []store.VacancyListing, err error) {
	if err != nil {
		s.fail(w, r, "Failed to fetch vacancies", err)
		return
	}
	// Return empty list if nil to be JSON friendly
	if listings == nil {
		listings = []store.VacancyListing{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": listings,
		"total": len(listings),
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	log.Error().
		Err(err).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg(message)
	respondError(w, http.StatusInternalServerError, message+": "+err.Error())
}
