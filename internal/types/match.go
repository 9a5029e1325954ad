package types

// MatchResult is the overlap between a resume skill set and a job skill set.
// Matched and Missing partition the job skills.
type MatchResult struct {
	Score   float64  `json:"score"`   // 0-100, two decimal places
	Matched SkillSet `json:"matched"` // resume ∩ job
	Missing SkillSet `json:"missing"` // job − resume
}

// RankedMatch is one row of a batch match: the job, its position in the
// caller's input, and its result.
type RankedMatch struct {
	Index  int           `json:"index"`
	Job    NormalizedJob `json:"job"`
	Result MatchResult   `json:"result"`
}
