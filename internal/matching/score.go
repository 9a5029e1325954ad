// Package matching scores resume skills against job skills and ranks batches
// of jobs for one resume.
package matching

import (
	"math"

	"github.com/jonathan/skillmatch/internal/types"
)

// Score compares a resume skill set with a job skill set. Matched and Missing
// partition the job skills; the score is the matched share of job skills as a
// percentage rounded to two decimals, and 0 for a job without skills.
func Score(resumeSkills, jobSkills types.SkillSet) types.MatchResult {
	matched := jobSkills.Intersect(resumeSkills)
	missing := jobSkills.Difference(resumeSkills)

	var score float64
	if n := jobSkills.Len(); n > 0 {
		score = round2(100 * float64(matched.Len()) / float64(n))
	}

	return types.MatchResult{
		Score:   score,
		Matched: matched,
		Missing: missing,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
