package scorers

import "github.com/edurisk/student-dss/internal/modules/students"

// AcademicScore calculates the Academic Performance Score (APS)
// from the second-period grade:
//   - G2 < 10       → 4 points (failing)
//   - 10 ≤ G2 ≤ 11  → 2 points (borderline)
//   - G2 > 11       → 0 points
func AcademicScore(f students.Features) int {
	switch {
	case f.G2 < 10:
		return 4
	case f.G2 <= 11:
		return 2
	default:
		return 0
	}
}
