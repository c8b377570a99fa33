package analysis

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/students"
)

// Repository persists analysis runs and their per-student results.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new analysis repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "analysis").Logger(),
	}
}

// SaveRun stores one completed run and all of its row results in a
// single transaction.
func (r *Repository) SaveRun(results []domain.AnalysisResult, summary domain.SummaryStatistics) error {
	runID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO analysis_runs
		 (id, created_at, total_students, high_risk, moderate_risk, low_risk, ml_enabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, now,
		summary.TotalStudents, summary.HighRisk, summary.ModerateRisk, summary.LowRisk,
		boolToInt(summary.MLEnabled),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO analysis_results
		 (run_id, row_index, g1, g2, g3, absences, study_time, failures, family_support,
		  aps, ars, fsr, lrs, total_risk_score, risk_level, ml_probability,
		  final_risk_level, recommendations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare results insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range results {
		_, err = stmt.Exec(
			runID, res.Index,
			nullNumber(res.Record, "G1"),
			nullNumber(res.Record, "G2"),
			nullNumber(res.Record, "G3"),
			nullNumber(res.Record, "absences"),
			nullNumber(res.Record, "studytime"),
			nullNumber(res.Record, "failures"),
			stringField(res.Record, "famsup"),
			res.Breakdown.APS, res.Breakdown.ARS, res.Breakdown.FSR, res.Breakdown.LRS,
			res.TotalRiskScore, string(res.RuleLevel),
			nullProbability(res),
			string(res.FinalLevel),
			strings.Join(res.Recommendations, " | "),
		)
		if err != nil {
			return fmt.Errorf("failed to insert result row %d: %w", res.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	r.log.Info().Str("run_id", runID).Int("rows", len(results)).Msg("Run persisted")
	return nil
}

// RunHistory lists stored runs, newest first.
func (r *Repository) RunHistory(limit int) ([]domain.SummaryStatistics, error) {
	rows, err := r.db.Query(
		`SELECT total_students, high_risk, moderate_risk, low_risk, ml_enabled
		 FROM analysis_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var out []domain.SummaryStatistics
	for rows.Next() {
		var s domain.SummaryStatistics
		var mlEnabled int
		if err := rows.Scan(&s.TotalStudents, &s.HighRisk, &s.ModerateRisk, &s.LowRisk, &mlEnabled); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		s.MLEnabled = mlEnabled != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullNumber(rec domain.Record, key string) any {
	if v, ok := students.Number(rec, key); ok {
		return v
	}
	return nil
}

func stringField(rec domain.Record, key string) any {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return nil
}

func nullProbability(res domain.AnalysisResult) any {
	if !res.MLAvailable {
		return nil
	}
	return res.MLProbability
}
