package stats

import (
	"sort"

	"github.com/verte-zerg/studyflow/internal/analytics"
)

// TopSubjectsBySessions returns up to n subjects with the most sessions.
func TopSubjectsBySessions(subjects []analytics.SubjectSummary, n int) []analytics.SubjectSummary {
	if n <= 0 || len(subjects) == 0 {
		return nil
	}
	items := make([]analytics.SubjectSummary, len(subjects))
	copy(items, subjects)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SessionCount == items[j].SessionCount {
			return items[i].Topic < items[j].Topic
		}
		return items[i].SessionCount > items[j].SessionCount
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
