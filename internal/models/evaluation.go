package models

// Verdict labels, assigned from the overall score with inclusive lower
// bounds, evaluated high to low.
const (
	VerdictExceptional = "exceptional"
	VerdictExcellent   = "excellent"
	VerdictGood        = "good"
	VerdictAverage     = "average"
	VerdictDeveloping  = "developing"
)

// VerdictFor maps an overall score to its verdict label.
func VerdictFor(score float64) string {
	switch {
	case score >= 90:
		return VerdictExceptional
	case score >= 80:
		return VerdictExcellent
	case score >= 70:
		return VerdictGood
	case score >= 60:
		return VerdictAverage
	default:
		return VerdictDeveloping
	}
}

// Evaluation is a scouting report derived from a Player. It is never
// patched in place: callers re-derive it from the current record.
type Evaluation struct {
	PlayerID       int      `json:"playerId"`
	FullName       string   `json:"fullName"`
	Team           string   `json:"team"`
	Position       string   `json:"position"`
	OverallScore   float64  `json:"overallScore"`
	Verdict        string   `json:"verdict"`
	EvaluationDate string   `json:"evaluationDate"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
}
