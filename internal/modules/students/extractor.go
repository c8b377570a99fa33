// Package students normalizes loosely-typed student records into the
// typed feature set every scorer and the classifier consume.
package students

import (
	"strconv"
	"strings"

	"github.com/edurisk/student-dss/internal/domain"
)

// Default values substituted for absent optional fields.
const (
	DefaultStudyTime = 2
	DefaultFamSup    = "yes"
	DefaultParentEdu = 2
	DefaultAlcohol   = 1
	DefaultGoOut     = 2
)

// Features is the normalized view of one student record. Both the batch
// pipeline and single-record evaluations share this structure.
type Features struct {
	G1        float64
	G2        float64
	G3        *float64 // ground-truth final grade, absent for live records
	Absences  float64
	StudyTime float64
	Failures  float64
	FamSup    string
	Medu      float64
	Fedu      float64
	Dalc      float64
	Walc      float64
	GoOut     float64
}

// Extract pulls the known fields out of a record, substituting defaults
// for absent optional fields. G2 and absences are required by every
// downstream sub-score and have no defensible default; their absence is
// reported as a domain.MissingFieldError.
func Extract(rec domain.Record) (Features, error) {
	g2, ok := Number(rec, "G2")
	if !ok {
		return Features{}, &domain.MissingFieldError{Field: "G2"}
	}
	absences, ok := Number(rec, "absences")
	if !ok {
		return Features{}, &domain.MissingFieldError{Field: "absences"}
	}

	f := Features{
		G1:        numberOr(rec, "G1", 0),
		G2:        g2,
		Absences:  absences,
		StudyTime: numberOr(rec, "studytime", DefaultStudyTime),
		Failures:  numberOr(rec, "failures", 0),
		FamSup:    stringOr(rec, "famsup", DefaultFamSup),
		Medu:      numberOr(rec, "Medu", DefaultParentEdu),
		Fedu:      numberOr(rec, "Fedu", DefaultParentEdu),
		Dalc:      numberOr(rec, "Dalc", DefaultAlcohol),
		Walc:      numberOr(rec, "Walc", DefaultAlcohol),
		GoOut:     numberOr(rec, "goout", DefaultGoOut),
	}

	if g3, ok := Number(rec, "G3"); ok {
		f.G3 = &g3
	}

	return f, nil
}

// Number reads a record field as float64, accepting numeric and string
// representations. The classifier shares this coercion so that batch
// and single-record inputs behave identically.
func Number(rec domain.Record, key string) (float64, bool) {
	v, ok := rec[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func numberOr(rec domain.Record, key string, fallback float64) float64 {
	if n, ok := Number(rec, key); ok {
		return n
	}
	return fallback
}

func stringOr(rec domain.Record, key string, fallback string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s != "" {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return fallback
}
