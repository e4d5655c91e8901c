package analytics

// NoData labels best/worst subject and last session when there is nothing to report.
const NoData = "N/A"

// SubjectSummary aggregates all records sharing a topic.
type SubjectSummary struct {
	Topic           string `json:"topic"`
	SessionCount    int    `json:"sessionCount"`
	TotalScore      int    `json:"totalScore"`
	TotalQuestions  int    `json:"totalQuestions"`
	AverageScorePct int    `json:"averageScorePct"`
}

// SubjectRef names a subject and its question-weighted average.
type SubjectRef struct {
	Topic           string `json:"topic"`
	AverageScorePct int    `json:"averageScorePct"`
}

// DailyActivity is one day of the consistency window.
type DailyActivity struct {
	Date              string `json:"date"`
	QuestionsAnswered int    `json:"questionsAnswered"`
}

// TimeOfDayBucket accumulates performance for a fixed range of local hours [StartHour, EndHour).
type TimeOfDayBucket struct {
	Label           string `json:"label"`
	StartHour       int    `json:"startHour"`
	EndHour         int    `json:"endHour"`
	Sessions        int    `json:"sessions"`
	TotalScore      int    `json:"totalScore"`
	TotalQuestions  int    `json:"totalQuestions"`
	AverageScorePct int    `json:"averageScorePct"`
}

// DayFlag marks whether any practice happened on a local date.
type DayFlag struct {
	Date   string `json:"date"`
	Active bool   `json:"active"`
}

// StreakState holds the consecutive-day streak and the last seven days of activity.
type StreakState struct {
	CurrentStreak int       `json:"currentStreak"`
	RecentDays    []DayFlag `json:"recentDays"`
}

// WeeklyProgress compares sessions in the current week with the weekly target.
type WeeklyProgress struct {
	SessionsThisWeek int    `json:"sessionsThisWeek"`
	Target           int    `json:"target"`
	ProgressPct      int    `json:"progressPct"`
	Met              bool   `json:"met"`
	WeekStart        string `json:"weekStart"`
	WeekEnd          string `json:"weekEnd"`
}

// MasteryProgress counts mastered subjects against the mastery goal.
type MasteryProgress struct {
	SubjectsMastered int `json:"subjectsMastered"`
	MasteryGoal      int `json:"masteryGoal"`
	Threshold        int `json:"threshold"`
}

// SessionRef describes a single practice record in a snapshot.
type SessionRef struct {
	Topic          string `json:"topic"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	ScorePct       int    `json:"scorePct"`
	OccurredAt     string `json:"occurredAt"`
}

// IngestStats counts how raw records were classified.
type IngestStats struct {
	Received int `json:"received"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Undated  int `json:"undated"`
}

// AnalyticsSnapshot is the complete derived view of a record set at one point in time.
// Snapshots are read-only values; every slice is non-nil.
type AnalyticsSnapshot struct {
	AsOf                   string            `json:"asOf"`
	TotalSessions          int               `json:"totalSessions"`
	UniqueSubjects         int               `json:"uniqueSubjects"`
	TotalQuestionsAnswered int               `json:"totalQuestionsAnswered"`
	OverallAverageScorePct int               `json:"overallAverageScorePct"`
	BestSubject            SubjectRef        `json:"bestSubject"`
	WorstSubject           SubjectRef        `json:"worstSubject"`
	Subjects               []SubjectSummary  `json:"subjects"`
	DailyActivity          []DailyActivity   `json:"dailyActivity"`
	TimeOfDay              []TimeOfDayBucket `json:"timeOfDay"`
	Streak                 StreakState       `json:"streak"`
	Weekly                 WeeklyProgress    `json:"weekly"`
	Mastery                MasteryProgress   `json:"mastery"`
	LastSession            SessionRef        `json:"lastSession"`
	Ingest                 IngestStats       `json:"ingest"`
}

func (s AnalyticsSnapshot) clone() AnalyticsSnapshot {
	out := s
	out.Subjects = append([]SubjectSummary{}, s.Subjects...)
	out.DailyActivity = append([]DailyActivity{}, s.DailyActivity...)
	out.TimeOfDay = append([]TimeOfDayBucket{}, s.TimeOfDay...)
	out.Streak.RecentDays = append([]DayFlag{}, s.Streak.RecentDays...)
	return out
}
