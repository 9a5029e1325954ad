package matching

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/jonathan/skillmatch/internal/jobs"
	"github.com/jonathan/skillmatch/internal/types"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel job evaluations in a batch.
const DefaultConcurrency = 8

// Matcher scores one resume against many job records.
type Matcher struct {
	normalizer  *jobs.Normalizer
	concurrency int
}

// NewMatcher creates a Matcher. Concurrency below 1 uses DefaultConcurrency.
func NewMatcher(normalizer *jobs.Normalizer, concurrency int) *Matcher {
	if normalizer == nil {
		normalizer = jobs.NewNormalizer(nil)
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Matcher{normalizer: normalizer, concurrency: concurrency}
}

// MatchJobs normalizes and scores every record concurrently and returns rows
// ranked by descending score, ties in input order. If ctx is canceled, the
// rows finished so far are returned, ranked, together with ctx.Err(). A row
// appears only if its normalization and score completed before ctx was done.
func (m *Matcher) MatchJobs(ctx context.Context, resumeSkills types.SkillSet, records []types.JobRecord) ([]types.RankedMatch, error) {
	var (
		mu   sync.Mutex
		rows = make([]types.RankedMatch, 0, len(records))
	)

	g := new(errgroup.Group)
	g.SetLimit(m.concurrency)

	for i, record := range records {
		if ctx.Err() != nil {
			break
		}
		if err := jobs.CheckRecord(i, record); err != nil {
			log.Printf("[MATCH] %v, using defaults", err)
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			job := m.normalizer.Normalize(ctx, record)
			result := Score(resumeSkills, job.Skills)
			// Extraction degrades to the dictionary on cancellation, so a
			// row finished after ctx is done may be missing model skills.
			if ctx.Err() != nil {
				return nil
			}

			mu.Lock()
			rows = append(rows, types.RankedMatch{Index: i, Job: job, Result: result})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	Rank(rows)
	if err := ctx.Err(); err != nil {
		return rows, err
	}
	return rows, nil
}

// Rank sorts rows by descending score, breaking ties by input index.
func Rank(rows []types.RankedMatch) {
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].Result.Score != rows[b].Result.Score {
			return rows[a].Result.Score > rows[b].Result.Score
		}
		return rows[a].Index < rows[b].Index
	})
}
