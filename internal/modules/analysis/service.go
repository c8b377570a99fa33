// Package analysis orchestrates the hybrid risk pipeline: rule scoring,
// classifier predictions, reconciliation, and recommendation synthesis
// over a full dataset or a single ad-hoc record.
package analysis

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/edurisk/student-dss/internal/dataset"
	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/classifier"
	"github.com/edurisk/student-dss/internal/modules/decision"
	"github.com/edurisk/student-dss/internal/modules/recommendations"
	"github.com/edurisk/student-dss/internal/modules/scoring/scorers"
	"github.com/edurisk/student-dss/internal/modules/students"
	"github.com/edurisk/student-dss/pkg/formulas"
)

// Service owns the in-flight dataset and the trained model for one run.
// The model is written only during Run; per-record evaluation treats it
// as read-only.
type Service struct {
	log     zerolog.Logger
	loader  *dataset.Loader
	trainer *classifier.Trainer
	store   *classifier.Store
	repo    *Repository

	datasetPath string

	mu        sync.RWMutex
	rows      []row
	model     *classifier.Model
	mlEnabled bool
	skipped   int
}

// row carries one student's record through the pipeline stages.
type row struct {
	index    int
	record   domain.Record
	features students.Features
	result   domain.AnalysisResult
}

// RunOptions controls a pipeline run.
type RunOptions struct {
	// Retrain forces training a fresh model even when a persisted
	// artifact exists.
	Retrain bool
}

// Config wires the service's collaborators.
type Config struct {
	DatasetPath string
	Loader      *dataset.Loader
	Trainer     *classifier.Trainer
	Store       *classifier.Store
	Repository  *Repository
	Log         zerolog.Logger
}

// NewService creates a new analysis service
func NewService(cfg Config) *Service {
	return &Service{
		log:         cfg.Log.With().Str("module", "analysis").Logger(),
		loader:      cfg.Loader,
		trainer:     cfg.Trainer,
		store:       cfg.Store,
		repo:        cfg.Repository,
		datasetPath: cfg.DatasetPath,
	}
}

// Run executes the full pipeline: load, model setup, rules, predictions,
// reconciliation, recommendations, persistence. Every stage recomputes
// its derived values from scratch, so re-running never accumulates.
func (s *Service) Run(opts RunOptions) error {
	records, err := s.loader.Load(s.datasetPath)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.extractRows(records)
	s.ensureModel(records, opts.Retrain)
	s.applyRules()
	s.applyModel()
	s.reconcile()
	s.synthesize()

	summary := s.summaryLocked()
	s.log.Info().
		Int("students", summary.TotalStudents).
		Int("skipped", s.skipped).
		Int("high", summary.HighRisk).
		Int("moderate", summary.ModerateRisk).
		Int("low", summary.LowRisk).
		Bool("ml_enabled", summary.MLEnabled).
		Msg("Analysis run complete")

	if s.repo != nil {
		if err := s.repo.SaveRun(s.resultsLocked(), summary); err != nil {
			s.log.Error().Err(err).Msg("Failed to persist analysis run")
		}
	}

	return nil
}

// extractRows normalizes every record. Records missing a required field
// cannot be scored; they are dropped with a warning so the batch run
// still completes.
func (s *Service) extractRows(records []domain.Record) {
	s.rows = s.rows[:0]
	s.skipped = 0
	for i, rec := range records {
		f, err := students.Extract(rec)
		if err != nil {
			s.skipped++
			s.log.Warn().Err(err).Int("row", i).Msg("Record skipped")
			continue
		}
		s.rows = append(s.rows, row{index: i, record: rec, features: f})
	}
}

// ensureModel makes the classifier ready: retrain when requested,
// otherwise load the latest artifact and fall back to training when
// nothing is persisted or loading fails. A skipped training leaves the
// pipeline in rule-only mode.
func (s *Service) ensureModel(records []domain.Record, retrain bool) {
	s.model = nil
	s.mlEnabled = false

	if !retrain {
		model, err := s.store.LoadLatest()
		if err == nil {
			s.model = model
			s.mlEnabled = true
			return
		}
		if !errors.Is(err, classifier.ErrNoModel) {
			s.log.Warn().Err(err).Msg("Model load failed, training instead")
		}
	}

	model, err := s.trainer.Train(records)
	if err != nil {
		if errors.Is(err, classifier.ErrTrainingSkipped) {
			s.log.Warn().Err(err).Msg("Continuing with rules only")
		} else {
			s.log.Error().Err(err).Msg("Training failed, continuing with rules only")
		}
		return
	}

	s.model = model
	s.mlEnabled = true

	if err := s.store.Save(model); err != nil {
		s.log.Warn().Err(err).Msg("Could not persist model artifact")
	}
}

// applyRules computes the rule breakdown and rule-based tier per row.
func (s *Service) applyRules() {
	for i := range s.rows {
		r := &s.rows[i]
		breakdown := scorers.ComputeBreakdown(r.features)
		r.result = domain.AnalysisResult{
			Index:          r.index,
			Record:         r.record,
			Breakdown:      breakdown,
			TotalRiskScore: breakdown.Total(),
			RuleLevel:      scorers.ClassifyScore(breakdown.Total()),
		}
	}
}

// applyModel fills failure probabilities. Prediction faults degrade the
// affected row to probability 0 rather than aborting the run.
func (s *Service) applyModel() {
	for i := range s.rows {
		r := &s.rows[i]
		r.result.MLProbability = 0
		r.result.MLAvailable = false
		if s.model == nil {
			continue
		}
		p, err := s.model.Predict(r.record)
		if err != nil {
			s.log.Warn().Err(err).Int("row", r.index).Msg("Prediction failed")
			continue
		}
		r.result.MLProbability = p
		r.result.MLAvailable = true
	}
}

// reconcile merges the two signals into the final tier.
func (s *Service) reconcile() {
	for i := range s.rows {
		r := &s.rows[i]
		r.result.FinalLevel = decision.Reconcile(r.result.TotalRiskScore, r.result.MLProbability)
	}
}

// synthesize builds the recommendation list per row.
func (s *Service) synthesize() {
	for i := range s.rows {
		r := &s.rows[i]
		recs := recommendations.Synthesize(r.features, r.result.FinalLevel)
		if r.result.MLAvailable {
			recs = recommendations.AppendModelNote(recs, r.result.MLProbability)
		}
		r.result.Recommendations = recs
	}
}

// AnalyzeSingle evaluates one ad-hoc record against the ready model.
// It never mutates service state. A missing required field surfaces as
// a domain.MissingFieldError naming the field.
func (s *Service) AnalyzeSingle(rec domain.Record) (domain.AnalysisResult, error) {
	f, err := students.Extract(rec)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	s.mu.RLock()
	model := s.model
	s.mu.RUnlock()

	breakdown := scorers.ComputeBreakdown(f)
	total := breakdown.Total()

	probability := 0.0
	available := false
	if model != nil {
		p, err := model.Predict(rec)
		if err != nil {
			s.log.Warn().Err(err).Msg("Prediction failed for single record")
		} else {
			probability = p
			available = true
		}
	}

	final := decision.Reconcile(total, probability)
	recs := recommendations.Synthesize(f, final)
	if available {
		recs = recommendations.AppendModelNote(recs, probability)
	}

	return domain.AnalysisResult{
		Record:          rec,
		Breakdown:       breakdown,
		TotalRiskScore:  total,
		RuleLevel:       scorers.ClassifyScore(total),
		MLProbability:   probability,
		MLAvailable:     available,
		FinalLevel:      final,
		Recommendations: recs,
	}, nil
}

// AnalyzeAll returns the results of the last run in dataset order.
func (s *Service) AnalyzeAll() []domain.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resultsLocked()
}

func (s *Service) resultsLocked() []domain.AnalysisResult {
	out := make([]domain.AnalysisResult, len(s.rows))
	for i := range s.rows {
		out[i] = s.rows[i].result
	}
	return out
}

// AtRisk returns students needing intervention: Moderate and High risk,
// High first, then by descending rule score.
func (s *Service) AtRisk() []domain.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.AnalysisResult
	for i := range s.rows {
		res := s.rows[i].result
		if res.FinalLevel == domain.RiskHigh || res.FinalLevel == domain.RiskModerate {
			out = append(out, res)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalLevel != out[j].FinalLevel {
			return out[i].FinalLevel.Rank() > out[j].FinalLevel.Rank()
		}
		return out[i].TotalRiskScore > out[j].TotalRiskScore
	})

	return out
}

// SummaryStatistics reports the tier distribution of the last run.
func (s *Service) SummaryStatistics() domain.SummaryStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summaryLocked()
}

func (s *Service) summaryLocked() domain.SummaryStatistics {
	stats := domain.SummaryStatistics{
		TotalStudents: len(s.rows),
		MLEnabled:     s.mlEnabled,
	}
	for i := range s.rows {
		switch s.rows[i].result.FinalLevel {
		case domain.RiskHigh:
			stats.HighRisk++
		case domain.RiskModerate:
			stats.ModerateRisk++
		default:
			stats.LowRisk++
		}
	}
	if stats.TotalStudents > 0 {
		total := float64(stats.TotalStudents)
		stats.HighRiskPct = formulas.Round1(float64(stats.HighRisk) / total * 100)
		stats.ModerateRiskPct = formulas.Round1(float64(stats.ModerateRisk) / total * 100)
		stats.LowRiskPct = formulas.Round1(float64(stats.LowRisk) / total * 100)
	}
	return stats
}

// MLEnabled reports whether the classifier is active for this run.
func (s *Service) MLEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mlEnabled
}
