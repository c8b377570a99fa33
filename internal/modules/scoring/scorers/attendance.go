package scorers

import "github.com/edurisk/student-dss/internal/modules/students"

// AttendanceScore calculates the Attendance Risk Score (ARS):
//   - absences > 15      → 3 points
//   - 5 ≤ absences ≤ 15  → 1 point
//   - absences < 5       → 0 points
//
// Exactly 15 absences scores 1 point, not 3: the high band keeps the
// strict > 15 comparison.
func AttendanceScore(f students.Features) int {
	switch {
	case f.Absences > 15:
		return 3
	case f.Absences >= 5:
		return 1
	default:
		return 0
	}
}
