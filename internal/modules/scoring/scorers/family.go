package scorers

import "github.com/edurisk/student-dss/internal/modules/students"

// FamilySupportScore calculates the Family Support Risk (FSR).
// Components sum independently (max 3):
//   - no family educational support → +2
//   - average parental education ≤ 2 → +1
func FamilySupportScore(f students.Features) int {
	score := 0

	if f.FamSup == "no" {
		score += 2
	}

	if (f.Medu+f.Fedu)/2 <= 2 {
		score++
	}

	return score
}
