package stats

import (
	"sort"

	"github.com/verte-zerg/studyflow/internal/analytics"
)

// WeakestSubjects returns up to n subjects not above threshold, lowest average first.
func WeakestSubjects(subjects []analytics.SubjectSummary, threshold, n int) []analytics.SubjectSummary {
	weak := make([]analytics.SubjectSummary, 0, len(subjects))
	for _, s := range subjects {
		if s.AverageScorePct <= threshold {
			weak = append(weak, s)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		if weak[i].AverageScorePct == weak[j].AverageScorePct {
			return weak[i].Topic < weak[j].Topic
		}
		return weak[i].AverageScorePct < weak[j].AverageScorePct
	})
	if n > 0 && n < len(weak) {
		weak = weak[:n]
	}
	return weak
}
