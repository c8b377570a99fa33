package classifier

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurisk/student-dss/internal/domain"
)

// trainingSet builds a cleanly separable dataset: struggling students
// (low grades, many failures and absences) fail, strong students pass.
func trainingSet(n int) []domain.Record {
	var records []domain.Record
	for i := 0; i < n; i++ {
		records = append(records, domain.Record{
			"failures": 2.0, "absences": 18.0, "studytime": 1.0,
			"G1": 6.0, "G2": 5.0, "G3": 5.0,
		})
		records = append(records, domain.Record{
			"failures": 0.0, "absences": 2.0, "studytime": 3.0,
			"G1": 15.0, "G2": 16.0, "G3": 16.0,
		})
	}
	return records
}

func TestTrainSeparableDataset(t *testing.T) {
	trainer := NewTrainer(zerolog.Nop())

	model, err := trainer.Train(trainingSet(20))
	require.NoError(t, err)
	require.NotNil(t, model)

	assert.Len(t, model.Weights, len(FeatureNames))
	assert.Len(t, model.Medians, len(FeatureNames))
	assert.GreaterOrEqual(t, model.Accuracy, 0.9, "separable data should be fit almost perfectly")
	assert.False(t, model.TrainedAt.IsZero())

	atRisk, err := model.Predict(domain.Record{
		"failures": 3.0, "absences": 20.0, "studytime": 1.0, "G1": 5.0, "G2": 4.0,
	})
	require.NoError(t, err)

	safe, err := model.Predict(domain.Record{
		"failures": 0.0, "absences": 0.0, "studytime": 4.0, "G1": 16.0, "G2": 17.0,
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, atRisk, 0.0)
	assert.LessOrEqual(t, atRisk, 1.0)
	assert.Greater(t, atRisk, safe, "struggling student must score a higher failure probability")
	assert.Greater(t, atRisk, 0.5)
	assert.Less(t, safe, 0.5)
}

func TestTrainSkippedWithoutGroundTruth(t *testing.T) {
	trainer := NewTrainer(zerolog.Nop())

	records := []domain.Record{
		{"failures": 0.0, "absences": 2.0, "studytime": 3.0, "G1": 15.0, "G2": 16.0},
	}

	model, err := trainer.Train(records)
	assert.Nil(t, model)
	assert.ErrorIs(t, err, ErrTrainingSkipped)
}

func TestTrainSkippedWithMissingFeatureColumn(t *testing.T) {
	trainer := NewTrainer(zerolog.Nop())

	// No record carries a studytime value, so the column is absent.
	records := []domain.Record{
		{"failures": 0.0, "absences": 2.0, "G1": 15.0, "G2": 16.0, "G3": 16.0},
		{"failures": 2.0, "absences": 18.0, "G1": 6.0, "G2": 5.0, "G3": 5.0},
	}

	model, err := trainer.Train(records)
	assert.Nil(t, model)
	assert.ErrorIs(t, err, ErrTrainingSkipped)
}

func TestTrainSkippedOnEmptyDataset(t *testing.T) {
	trainer := NewTrainer(zerolog.Nop())

	model, err := trainer.Train(nil)
	assert.Nil(t, model)
	assert.ErrorIs(t, err, ErrTrainingSkipped)
}

func TestTrainImputesWithColumnMedian(t *testing.T) {
	trainer := NewTrainer(zerolog.Nop())

	records := trainingSet(5)
	// Knock out some absences values; the column is still present.
	delete(records[0], "absences")
	delete(records[3], "absences")

	model, err := trainer.Train(records)
	require.NoError(t, err)

	// absences is the second model feature.
	assert.Greater(t, model.Medians[1], 0.0, "median must come from the observed values")

	// Prediction with the value missing must use the stored median, so
	// it matches an explicit record carrying exactly that value.
	missing, err := model.Predict(domain.Record{
		"failures": 1.0, "studytime": 2.0, "G1": 10.0, "G2": 10.0,
	})
	require.NoError(t, err)

	explicit, err := model.Predict(domain.Record{
		"failures": 1.0, "absences": model.Medians[1], "studytime": 2.0, "G1": 10.0, "G2": 10.0,
	})
	require.NoError(t, err)

	assert.InDelta(t, explicit, missing, 1e-12)
}

func TestPredictRejectsMalformedModel(t *testing.T) {
	model := &Model{Weights: []float64{1}}

	_, err := model.Predict(domain.Record{"G2": 10.0})
	assert.Error(t, err)
}
