package analytics

import (
	"sort"

	"github.com/verte-zerg/studyflow/internal/model"
)

type subjectAccumulator struct {
	order   []string
	byTopic map[string]*SubjectSummary
}

func newSubjectAccumulator() *subjectAccumulator {
	return &subjectAccumulator{byTopic: map[string]*SubjectSummary{}}
}

func (a *subjectAccumulator) add(rec model.PracticeRecord) {
	s, ok := a.byTopic[rec.Topic]
	if !ok {
		s = &SubjectSummary{Topic: rec.Topic}
		a.byTopic[rec.Topic] = s
		a.order = append(a.order, rec.Topic)
	}
	s.SessionCount++
	s.TotalScore += rec.Score
	s.TotalQuestions += rec.TotalQuestions
}

func (a *subjectAccumulator) result() []SubjectSummary {
	out := make([]SubjectSummary, 0, len(a.order))
	for _, topic := range a.order {
		s := *a.byTopic[topic]
		s.AverageScorePct = roundPct(s.TotalScore, s.TotalQuestions)
		out = append(out, s)
	}
	return out
}

// Subjects groups records by exact topic and returns summaries in first-encountered order.
// Topics are case-sensitive: "Biology" and "biology" are different subjects.
func Subjects(records []model.PracticeRecord) []SubjectSummary {
	acc := newSubjectAccumulator()
	for _, rec := range records {
		acc.add(rec)
	}
	return acc.result()
}

// BestWorst picks the highest and lowest averaging subjects. Summaries are
// stably sorted ascending by average: worst is the first entry, best the last.
func BestWorst(subjects []SubjectSummary) (best, worst SubjectRef) {
	if len(subjects) == 0 {
		empty := SubjectRef{Topic: NoData}
		return empty, empty
	}
	sorted := append([]SubjectSummary(nil), subjects...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AverageScorePct < sorted[j].AverageScorePct
	})
	first, last := sorted[0], sorted[len(sorted)-1]
	return SubjectRef{Topic: last.Topic, AverageScorePct: last.AverageScorePct},
		SubjectRef{Topic: first.Topic, AverageScorePct: first.AverageScorePct}
}
