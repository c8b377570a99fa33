package classifier

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurisk/student-dss/internal/database"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewStore(db.Conn(), zerolog.Nop())
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)

	model := &Model{
		Weights:   []float64{0.5, -0.2, 0.1, -1.3, -2.1},
		Bias:      -0.4,
		Medians:   []float64{0, 4, 2, 11, 11},
		Means:     []float64{0.3, 5.7, 2.0, 10.9, 10.5},
		StdDevs:   []float64{0.7, 8.0, 0.8, 3.3, 3.8},
		Accuracy:  0.91,
		TrainedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Save(model))

	loaded, err := store.LoadLatest()
	require.NoError(t, err)

	assert.Equal(t, model.Weights, loaded.Weights)
	assert.Equal(t, model.Bias, loaded.Bias)
	assert.Equal(t, model.Medians, loaded.Medians)
	assert.Equal(t, model.Accuracy, loaded.Accuracy)
	assert.True(t, model.TrainedAt.Equal(loaded.TrainedAt))
}

func TestStoreLoadLatestPicksNewest(t *testing.T) {
	store := testStore(t)

	older := &Model{Weights: []float64{1}, Accuracy: 0.5, TrainedAt: time.Now().UTC()}
	newer := &Model{Weights: []float64{2}, Accuracy: 0.9, TrainedAt: time.Now().UTC()}

	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))

	loaded, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, newer.Accuracy, loaded.Accuracy)
}

func TestStoreLoadWithoutArtifact(t *testing.T) {
	store := testStore(t)

	model, err := store.LoadLatest()
	assert.Nil(t, model)
	assert.ErrorIs(t, err, ErrNoModel)
}
