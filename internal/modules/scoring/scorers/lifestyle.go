package scorers

import "github.com/edurisk/student-dss/internal/modules/students"

// LifestyleScore calculates the Lifestyle Risk Score (LRS).
// Components sum independently (max 5):
//   - average alcohol consumption ≥ 4 → +2
//   - going out ≥ 4                   → +1
//   - study time at the minimum (1)   → +2
func LifestyleScore(f students.Features) int {
	score := 0

	if (f.Dalc+f.Walc)/2 >= 4 {
		score += 2
	}

	if f.GoOut >= 4 {
		score++
	}

	if f.StudyTime == 1 {
		score += 2
	}

	return score
}
