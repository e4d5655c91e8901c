package analytics

import (
	"sort"

	"github.com/verte-zerg/studyflow/internal/model"
)

// Ingested is the normalized record set consumed by every aggregator.
type Ingested struct {
	// Records are sorted by OccurredAt ascending, undated records last,
	// preserving input order among equal timestamps.
	Records []model.PracticeRecord
	Stats   IngestStats
}

// Ingest validates and normalizes raw records without modifying them.
//
// Records with TotalQuestions <= 0 or a score outside [0, TotalQuestions] are
// rejected. Records without a timestamp are kept: they count toward subject and
// overall score totals and are skipped by date-based aggregations.
func Ingest(raw []model.PracticeRecord) Ingested {
	out := Ingested{
		Records: make([]model.PracticeRecord, 0, len(raw)),
		Stats:   IngestStats{Received: len(raw)},
	}
	for _, rec := range raw {
		if !validRecord(rec) {
			out.Stats.Rejected++
			continue
		}
		if !rec.Dated() {
			out.Stats.Undated++
		}
		out.Records = append(out.Records, rec)
	}
	out.Stats.Accepted = len(out.Records)
	sort.SliceStable(out.Records, func(i, j int) bool {
		a, b := out.Records[i], out.Records[j]
		if a.Dated() != b.Dated() {
			return a.Dated()
		}
		return a.OccurredAt.Before(b.OccurredAt)
	})
	return out
}

func validRecord(rec model.PracticeRecord) bool {
	if rec.TotalQuestions <= 0 {
		return false
	}
	return rec.Score >= 0 && rec.Score <= rec.TotalQuestions
}
