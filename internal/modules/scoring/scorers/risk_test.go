package scorers

import (
	"testing"

	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/students"
)

func TestAcademicScore(t *testing.T) {
	tests := []struct {
		name string
		g2   float64
		want int
	}{
		{name: "Failing grade", g2: 5, want: 4},
		{name: "Just below passing", g2: 9, want: 4},
		{name: "Lower borderline boundary", g2: 10, want: 2},
		{name: "Upper borderline boundary", g2: 11, want: 2},
		{name: "Just above borderline", g2: 12, want: 0},
		{name: "Strong grade", g2: 18, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AcademicScore(students.Features{G2: tt.g2})
			if got != tt.want {
				t.Errorf("AcademicScore(G2=%v) = %d, want %d", tt.g2, got, tt.want)
			}
		})
	}
}

func TestAttendanceScore(t *testing.T) {
	tests := []struct {
		name     string
		absences float64
		want     int
	}{
		{name: "Perfect attendance", absences: 0, want: 0},
		{name: "Just below moderate band", absences: 4, want: 0},
		{name: "Moderate band lower boundary", absences: 5, want: 1},
		{name: "Moderate band upper boundary", absences: 15, want: 1},
		{name: "High band lower boundary", absences: 16, want: 3},
		{name: "Chronic absence", absences: 30, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AttendanceScore(students.Features{Absences: tt.absences})
			if got != tt.want {
				t.Errorf("AttendanceScore(absences=%v) = %d, want %d", tt.absences, got, tt.want)
			}
		})
	}
}

func TestFamilySupportScore(t *testing.T) {
	tests := []struct {
		name   string
		famsup string
		medu   float64
		fedu   float64
		want   int
	}{
		{name: "Supported, educated parents", famsup: "yes", medu: 4, fedu: 4, want: 0},
		{name: "No support only", famsup: "no", medu: 4, fedu: 4, want: 2},
		{name: "Low parental education only", famsup: "yes", medu: 2, fedu: 2, want: 1},
		{name: "Both factors", famsup: "no", medu: 1, fedu: 1, want: 3},
		{name: "Education boundary at 2", famsup: "yes", medu: 2, fedu: 2, want: 1},
		{name: "Education just above boundary", famsup: "yes", medu: 3, fedu: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := students.Features{FamSup: tt.famsup, Medu: tt.medu, Fedu: tt.fedu}
			got := FamilySupportScore(f)
			if got != tt.want {
				t.Errorf("FamilySupportScore(%+v) = %d, want %d", f, got, tt.want)
			}
		})
	}
}

func TestLifestyleScore(t *testing.T) {
	tests := []struct {
		name      string
		dalc      float64
		walc      float64
		goout     float64
		studytime float64
		want      int
	}{
		{name: "Healthy lifestyle", dalc: 1, walc: 1, goout: 2, studytime: 3, want: 0},
		{name: "Heavy alcohol only", dalc: 4, walc: 4, goout: 2, studytime: 3, want: 2},
		{name: "Alcohol boundary at average 4", dalc: 3, walc: 5, goout: 2, studytime: 3, want: 2},
		{name: "Frequent going out only", dalc: 1, walc: 1, goout: 4, studytime: 3, want: 1},
		{name: "Minimal study time only", dalc: 1, walc: 1, goout: 2, studytime: 1, want: 2},
		{name: "All factors", dalc: 5, walc: 5, goout: 5, studytime: 1, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := students.Features{Dalc: tt.dalc, Walc: tt.walc, GoOut: tt.goout, StudyTime: tt.studytime}
			got := LifestyleScore(f)
			if got != tt.want {
				t.Errorf("LifestyleScore(%+v) = %d, want %d", f, got, tt.want)
			}
		})
	}
}

func TestClassifyScore(t *testing.T) {
	tests := []struct {
		score int
		want  domain.RiskLevel
	}{
		{score: 0, want: domain.RiskLow},
		{score: 3, want: domain.RiskLow},
		{score: 4, want: domain.RiskModerate},
		{score: 7, want: domain.RiskModerate},
		{score: 8, want: domain.RiskHigh},
		{score: 15, want: domain.RiskHigh},
	}

	for _, tt := range tests {
		got := ClassifyScore(tt.score)
		if got != tt.want {
			t.Errorf("ClassifyScore(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}

	// Monotonic: a higher score never yields a lower tier.
	prev := ClassifyScore(0)
	for score := 1; score <= 15; score++ {
		cur := ClassifyScore(score)
		if cur.Rank() < prev.Rank() {
			t.Errorf("ClassifyScore not monotonic: score %d ranks below score %d", score, score-1)
		}
		prev = cur
	}
}

func TestComputeBreakdownWorstCase(t *testing.T) {
	f := students.Features{
		G2: 5, Absences: 20, Failures: 3, StudyTime: 1,
		FamSup: "no", Medu: 1, Fedu: 1, Dalc: 5, Walc: 5, GoOut: 5,
	}

	b := ComputeBreakdown(f)

	if b.APS != 4 || b.ARS != 3 || b.FSR != 3 || b.LRS != 5 {
		t.Errorf("breakdown = %+v, want APS=4 ARS=3 FSR=3 LRS=5", b)
	}
	if b.Total() != 15 {
		t.Errorf("total = %d, want 15", b.Total())
	}
	if ClassifyScore(b.Total()) != domain.RiskHigh {
		t.Errorf("worst case should classify as high risk")
	}
}

func TestComputeBreakdownBestCase(t *testing.T) {
	f := students.Features{
		G2: 18, Absences: 0, Failures: 0, StudyTime: 4,
		FamSup: "yes", Medu: 4, Fedu: 4, Dalc: 1, Walc: 1, GoOut: 2,
	}

	b := ComputeBreakdown(f)

	if b.Total() != 0 {
		t.Errorf("total = %d, want 0 (breakdown %+v)", b.Total(), b)
	}
	if ClassifyScore(b.Total()) != domain.RiskLow {
		t.Errorf("best case should classify as low risk")
	}
}

func TestBreakdownTotalRange(t *testing.T) {
	// Sweep extreme field combinations; the total must stay in [0, 15].
	g2s := []float64{0, 10, 11, 20}
	absences := []float64{0, 5, 15, 16, 40}
	famsups := []string{"yes", "no"}
	studytimes := []float64{1, 2, 4}

	for _, g2 := range g2s {
		for _, abs := range absences {
			for _, fam := range famsups {
				for _, st := range studytimes {
					f := students.Features{
						G2: g2, Absences: abs, FamSup: fam, StudyTime: st,
						Medu: 0, Fedu: 0, Dalc: 5, Walc: 5, GoOut: 5,
					}
					total := ComputeBreakdown(f).Total()
					if total < 0 || total > 15 {
						t.Fatalf("total %d out of range for %+v", total, f)
					}
				}
			}
		}
	}
}
