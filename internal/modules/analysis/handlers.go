package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/edurisk/student-dss/internal/domain"
)

// Handlers provides HTTP handlers for the analysis module
type Handlers struct {
	service *Service
	log     zerolog.Logger
}

// NewHandlers creates a new analysis handlers instance
func NewHandlers(service *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("module", "analysis_handlers").Logger(),
	}
}

// HandleRun handles POST /api/analysis/run
// Executes the full pipeline; ?retrain=true forces a fresh model.
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	retrain, _ := strconv.ParseBool(r.URL.Query().Get("retrain"))

	if err := h.service.Run(RunOptions{Retrain: retrain}); err != nil {
		h.log.Error().Err(err).Msg("Analysis run failed")
		h.writeError(w, "Analysis run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, h.service.SummaryStatistics())
}

// HandleResults handles GET /api/analysis/results
func (h *Handlers) HandleResults(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.AnalyzeAll())
}

// HandleAtRisk handles GET /api/analysis/at-risk
// Moderate and High risk students, most severe first.
func (h *Handlers) HandleAtRisk(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.AtRisk())
}

// HandleSummary handles GET /api/analysis/summary
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.service.SummaryStatistics())
}

// HandleExport handles GET /api/analysis/export
// Streams the last run as CSV.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="analysis_results.csv"`)

	if err := h.service.ExportCSV(w); err != nil {
		h.log.Error().Err(err).Msg("Export failed")
	}
}

// HandleEvaluate handles POST /api/analysis/evaluate
// Evaluates a single ad-hoc student record.
func (h *Handlers) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var rec domain.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode evaluation request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.AnalyzeSingle(rec)
	if err != nil {
		var missing *domain.MissingFieldError
		if errors.As(err, &missing) {
			h.writeError(w, missing.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.log.Error().Err(err).Msg("Evaluation failed")
		h.writeError(w, "Evaluation failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
