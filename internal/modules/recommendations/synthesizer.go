// Package recommendations turns triggered risk factors and the final
// risk level into an ordered list of intervention advice.
package recommendations

import (
	"fmt"

	"github.com/edurisk/student-dss/internal/domain"
	"github.com/edurisk/student-dss/internal/modules/students"
)

// Factor-specific and tier-level messages. Order of synthesis is fixed:
// attendance, failures, study time, grade, family support, then the
// tier-level closer.
const (
	MsgCriticalAttendance = "Critical attendance issue - mandatory attendance counseling"
	MsgMonitorAttendance  = "Monitor attendance closely"
	MsgRemediation        = "Academic remediation program required"
	MsgAcademicSupport    = "Academic support recommended"
	MsgStudySkills        = "Study skills workshop - very low study time detected"
	MsgTutoring           = "Immediate tutoring for failing grades"
	MsgParentEngagement   = "Parental engagement initiative"
	MsgUrgentCounselor    = "URGENT: Schedule intervention meeting with counselor"
	MsgContactGuardians   = "Contact parents/guardians immediately"
	MsgRegularMonitoring  = "Regular monitoring and check-ins"
	MsgStayOnTrack        = "Continue current trajectory"
)

// ModelNoteThreshold is the probability above which an ML-confidence
// note is appended to the recommendation list.
const ModelNoteThreshold = 0.7

// Synthesize builds the ordered recommendation list for one student.
// The generic low-risk message appears only when no factor-specific
// message fired.
func Synthesize(f students.Features, level domain.RiskLevel) []string {
	var recs []string

	if f.Absences > 15 {
		recs = append(recs, MsgCriticalAttendance)
	} else if f.Absences > 5 {
		recs = append(recs, MsgMonitorAttendance)
	}

	if f.Failures > 1 {
		recs = append(recs, MsgRemediation)
	} else if f.Failures == 1 {
		recs = append(recs, MsgAcademicSupport)
	}

	if f.StudyTime == 1 {
		recs = append(recs, MsgStudySkills)
	}

	if f.G2 < 10 {
		recs = append(recs, MsgTutoring)
	}

	if f.FamSup == "no" {
		recs = append(recs, MsgParentEngagement)
	}

	switch level {
	case domain.RiskHigh:
		recs = append(recs, MsgUrgentCounselor, MsgContactGuardians)
	case domain.RiskModerate:
		recs = append(recs, MsgRegularMonitoring)
	default:
		if len(recs) == 0 {
			recs = append(recs, MsgStayOnTrack)
		}
	}

	return recs
}

// AppendModelNote adds the ML-confidence message when the classifier
// predicts failure with high confidence. It is always appended last.
func AppendModelNote(recs []string, probability float64) []string {
	if probability > ModelNoteThreshold {
		recs = append(recs, fmt.Sprintf(
			"Model predicts %.1f%% failure probability - close monitoring advised",
			probability*100))
	}
	return recs
}
