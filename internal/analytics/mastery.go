package analytics

// Mastery counts subjects whose average is strictly above cfg.MasteryThreshold.
func Mastery(subjects []SubjectSummary, cfg Config) MasteryProgress {
	mastered := 0
	for _, s := range subjects {
		if s.AverageScorePct > cfg.MasteryThreshold {
			mastered++
		}
	}
	return MasteryProgress{
		SubjectsMastered: mastered,
		MasteryGoal:      cfg.MasteryGoal,
		Threshold:        cfg.MasteryThreshold,
	}
}
