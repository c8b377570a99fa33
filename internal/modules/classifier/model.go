// Package classifier trains and applies a logistic-regression model
// predicting the probability that a student's final grade falls below
// the passing threshold.
package classifier

import (
	"fmt"
	"math"
	"time"

	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/students"
)

// FeatureNames is the exact feature vector the model consumes, in order.
var FeatureNames = []string{"failures", "absences", "studytime", "G1", "G2"}

// PassingGrade is the G3 threshold below which a student is labeled at
// risk during training.
const PassingGrade = 10

// Model is a trained logistic-regression artifact. Imputation medians
// and standardization parameters are computed once at training time and
// carried inside the artifact so that inference reuses them instead of
// recomputing over whatever batch happens to be at hand.
type Model struct {
	Weights   []float64 `msgpack:"weights"`
	Bias      float64   `msgpack:"bias"`
	Medians   []float64 `msgpack:"medians"`
	Means     []float64 `msgpack:"means"`
	StdDevs   []float64 `msgpack:"std_devs"`
	Accuracy  float64   `msgpack:"accuracy"`
	TrainedAt time.Time `msgpack:"trained_at"`
}

// Predict returns the failure probability for one record. Missing
// feature values are imputed with the training-time medians.
func (m *Model) Predict(rec domain.Record) (float64, error) {
	if len(m.Weights) != len(FeatureNames) {
		return 0, fmt.Errorf("model has %d weights, expected %d", len(m.Weights), len(FeatureNames))
	}
	if len(m.Medians) != len(FeatureNames) || len(m.Means) != len(FeatureNames) || len(m.StdDevs) != len(FeatureNames) {
		return 0, fmt.Errorf("model artifact is missing imputation or standardization parameters")
	}

	z := m.Bias
	for i, name := range FeatureNames {
		v, ok := students.Number(rec, name)
		if !ok {
			v = m.Medians[i]
		}
		z += m.Weights[i] * m.standardize(i, v)
	}

	p := sigmoid(z)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("prediction produced a non-finite probability")
	}
	return p, nil
}

// standardize applies the training-time z-score transform to one
// feature value. A zero standard deviation means the feature was
// constant in training; it contributes nothing.
func (m *Model) standardize(i int, v float64) float64 {
	if m.StdDevs[i] == 0 {
		return 0
	}
	return (v - m.Means[i]) / m.StdDevs[i]
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
