package classifier

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNoModel indicates that no persisted model artifact exists yet.
var ErrNoModel = errors.New("no persisted model artifact")

// Store persists trained model artifacts as opaque blobs.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a new model store
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("repo", "model_store").Logger(),
	}
}

// Save serializes the model and stores it as a new artifact row.
func (s *Store) Save(model *Model) error {
	blob, err := msgpack.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO model_artifacts (trained_at, accuracy, artifact) VALUES (?, ?, ?)`,
		model.TrainedAt.Format(time.RFC3339),
		model.Accuracy,
		blob,
	)
	if err != nil {
		return fmt.Errorf("failed to store model artifact: %w", err)
	}

	s.log.Info().
		Int("bytes", len(blob)).
		Float64("accuracy", model.Accuracy).
		Msg("Model artifact saved")

	return nil
}

// LoadLatest retrieves the most recently trained artifact. Returns
// ErrNoModel when none has been persisted yet.
func (s *Store) LoadLatest() (*Model, error) {
	var blob []byte
	err := s.db.QueryRow(
		`SELECT artifact FROM model_artifacts ORDER BY id DESC LIMIT 1`,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model artifact: %w", err)
	}

	var model Model
	if err := msgpack.Unmarshal(blob, &model); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	s.log.Info().
		Time("trained_at", model.TrainedAt).
		Float64("accuracy", model.Accuracy).
		Msg("Model artifact loaded")

	return &model, nil
}
