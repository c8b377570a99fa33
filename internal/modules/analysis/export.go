package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/students"
)

// ExportCSV writes the results of the last run as a flat CSV report.
// The G3 and ML probability columns appear only when the dataset and
// run provide them; recommendations are joined with " | ".
func (s *Service) ExportCSV(w io.Writer) error {
	results := s.AnalyzeAll()

	hasG3 := false
	hasML := false
	for _, res := range results {
		if _, ok := students.Number(res.Record, "G3"); ok {
			hasG3 = true
		}
		if res.MLAvailable {
			hasML = true
		}
	}

	header := []string{"Index", "G1", "G2"}
	if hasG3 {
		header = append(header, "G3")
	}
	header = append(header, "Absences", "Study_Time", "Failures", "Family_Support",
		"APS", "ARS", "FSR", "LRS", "Total_Risk_Score", "Risk_Level")
	if hasML {
		header = append(header, "ML_Risk_Probability")
	}
	header = append(header, "FinalRiskLevel", "Recommendations")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, res := range results {
		row := []string{
			strconv.Itoa(res.Index),
			numberCell(res.Record, "G1"),
			numberCell(res.Record, "G2"),
		}
		if hasG3 {
			row = append(row, numberCell(res.Record, "G3"))
		}
		row = append(row,
			numberCell(res.Record, "absences"),
			numberCell(res.Record, "studytime"),
			numberCell(res.Record, "failures"),
			stringCell(res.Record, "famsup"),
			strconv.Itoa(res.Breakdown.APS),
			strconv.Itoa(res.Breakdown.ARS),
			strconv.Itoa(res.Breakdown.FSR),
			strconv.Itoa(res.Breakdown.LRS),
			strconv.Itoa(res.TotalRiskScore),
			string(res.RuleLevel),
		)
		if hasML {
			row = append(row, probabilityCell(res))
		}
		row = append(row,
			string(res.FinalLevel),
			strings.Join(res.Recommendations, " | "),
		)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row %d: %w", res.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func numberCell(rec domain.Record, key string) string {
	if v, ok := students.Number(rec, key); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func stringCell(rec domain.Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func probabilityCell(res domain.AnalysisResult) string {
	if !res.MLAvailable {
		return ""
	}
	return strconv.FormatFloat(res.MLProbability, 'f', 4, 64)
}
