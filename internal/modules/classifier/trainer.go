package classifier

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/students"
	"github.com/edurisk/student-dss/pkg/formulas"
)

// ErrTrainingSkipped signals a dataset that cannot support training:
// no ground-truth column, or a required feature column wholly absent.
// This is an expected, recoverable condition; the pipeline degrades to
// rule-only mode.
var ErrTrainingSkipped = errors.New("classifier training skipped")

// Gradient-descent parameters. The problem is five-dimensional and the
// features are standardized, so plain batch descent converges quickly.
const (
	maxIterations = 1000
	learningRate  = 0.1
)

// Trainer fits logistic-regression models from historical records.
type Trainer struct {
	log zerolog.Logger
}

// NewTrainer creates a new trainer
func NewTrainer(log zerolog.Logger) *Trainer {
	return &Trainer{
		log: log.With().Str("module", "classifier").Logger(),
	}
}

// Train fits a model on records that carry a ground-truth final grade.
// Individual missing feature values are imputed with that feature's
// median over the training dataset, computed once here and stored in
// the model for reuse at inference time.
func (t *Trainer) Train(records []domain.Record) (*Model, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrTrainingSkipped)
	}

	if !columnPresent(records, "G3") {
		return nil, fmt.Errorf("%w: no G3 column, ground truth unavailable", ErrTrainingSkipped)
	}
	for _, name := range FeatureNames {
		if !columnPresent(records, name) {
			return nil, fmt.Errorf("%w: feature column %q is missing", ErrTrainingSkipped, name)
		}
	}

	// Collect raw feature columns; NaN marks a missing value.
	n := len(records)
	raw := make([][]float64, n)
	labels := make([]float64, 0, n)
	rows := make([][]float64, 0, n)
	for i, rec := range records {
		row := make([]float64, len(FeatureNames))
		for j, name := range FeatureNames {
			if v, ok := students.Number(rec, name); ok {
				row[j] = v
			} else {
				row[j] = math.NaN()
			}
		}
		raw[i] = row
	}

	medians := columnMedians(raw)

	// Rows without a ground-truth grade cannot be labeled.
	for i, rec := range records {
		g3, ok := students.Number(rec, "G3")
		if !ok {
			continue
		}
		row := raw[i]
		for j := range row {
			if math.IsNaN(row[j]) {
				row[j] = medians[j]
			}
		}
		label := 0.0
		if g3 < PassingGrade {
			label = 1.0
		}
		rows = append(rows, row)
		labels = append(labels, label)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no labeled rows", ErrTrainingSkipped)
	}

	means, stds := standardizationParams(rows)
	model := &Model{
		Medians:   medians,
		Means:     means,
		StdDevs:   stds,
		TrainedAt: time.Now().UTC(),
	}

	weights, bias := fit(standardizeRows(rows, means, stds), labels)
	model.Weights = weights
	model.Bias = bias
	model.Accuracy = accuracy(model, rows, labels)

	atRisk := 0
	for _, y := range labels {
		if y == 1 {
			atRisk++
		}
	}
	t.log.Info().
		Int("samples", len(rows)).
		Int("at_risk", atRisk).
		Float64("accuracy", formulas.Round3(model.Accuracy)).
		Msg("Model trained")

	return model, nil
}

// columnPresent reports whether any record carries a usable numeric
// value for the column.
func columnPresent(records []domain.Record, key string) bool {
	for _, rec := range records {
		if _, ok := students.Number(rec, key); ok {
			return true
		}
	}
	return false
}

// columnMedians computes the per-column median ignoring missing values.
func columnMedians(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	medians := make([]float64, len(rows[0]))
	for j := range medians {
		col := make([]float64, 0, len(rows))
		for i := range rows {
			if !math.IsNaN(rows[i][j]) {
				col = append(col, rows[i][j])
			}
		}
		medians[j] = formulas.Median(col)
	}
	return medians
}

func standardizationParams(rows [][]float64) (means, stds []float64) {
	cols := len(rows[0])
	means = make([]float64, cols)
	stds = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := make([]float64, len(rows))
		for i := range rows {
			col[i] = rows[i][j]
		}
		means[j] = formulas.Mean(col)
		stds[j] = formulas.StdDev(col)
	}
	return means, stds
}

func standardizeRows(rows [][]float64, means, stds []float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		z := make([]float64, len(row))
		for j, v := range row {
			if stds[j] != 0 {
				z[j] = (v - means[j]) / stds[j]
			}
		}
		out[i] = z
	}
	return out
}

// fit runs batch gradient descent on the standardized design matrix.
func fit(rows [][]float64, labels []float64) (weights []float64, bias float64) {
	n := len(rows)
	cols := len(rows[0])

	x := mat.NewDense(n, cols, nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	y := mat.NewVecDense(n, labels)

	w := mat.NewVecDense(cols, nil)
	preds := mat.NewVecDense(n, nil)
	residual := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(cols, nil)

	for iter := 0; iter < maxIterations; iter++ {
		preds.MulVec(x, w)
		biasGrad := 0.0
		for i := 0; i < n; i++ {
			p := sigmoid(preds.AtVec(i) + bias)
			r := p - y.AtVec(i)
			residual.SetVec(i, r)
			biasGrad += r
		}

		grad.MulVec(x.T(), residual)
		for j := 0; j < cols; j++ {
			w.SetVec(j, w.AtVec(j)-learningRate*grad.AtVec(j)/float64(n))
		}
		bias -= learningRate * biasGrad / float64(n)
	}

	weights = make([]float64, cols)
	for j := 0; j < cols; j++ {
		weights[j] = w.AtVec(j)
	}
	return weights, bias
}

// accuracy computes in-sample accuracy at the 0.5 decision threshold.
func accuracy(m *Model, rows [][]float64, labels []float64) float64 {
	correct := 0
	for i, row := range rows {
		z := m.Bias
		for j := range row {
			z += m.Weights[j] * m.standardize(j, row[j])
		}
		predicted := 0.0
		if sigmoid(z) >= 0.5 {
			predicted = 1.0
		}
		if predicted == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(rows))
}
