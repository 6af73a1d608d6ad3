package server

import (
	"encoding/json"
	"net/http"

	"github.com/ksahni/folio"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "folio",
	})
}

// comparisonRequest optionally overrides the benchmark for one report.
type comparisonRequest struct {
	Comparison string `json:"comparison"`
}

// handleComparison recomputes the full comparison report. A POST body may
// pick a different benchmark symbol.
func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	if r.Method == http.MethodPost {
		var req comparisonRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Comparison != "" {
			opts.Benchmark = req.Comparison
		}
	}

	report, err := s.buildReport(r, opts)
	if err != nil {
		s.log.Error().Err(err).Msg("report failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handlePerformance returns only the per-ticker performance records.
func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	report, err := s.buildReport(r, s.opts)
	if err != nil {
		s.log.Error().Err(err).Msg("report failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tickers": report.Tickers})
}

func (s *Server) buildReport(r *http.Request, opts folio.Options) (*folio.Report, error) {
	span := s.ledger.Span(folio.Today())
	return folio.BuildReport(r.Context(), s.ledger, s.prices, s.rates, span, opts)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
