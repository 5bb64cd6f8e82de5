package report

// TopicScore is one row of the per-topic breakdown: the percentage of
// correct answers among the answers attributed to that topic.
type TopicScore struct {
	TopicID   string  `json:"topic_id"`
	TopicName string  `json:"topic_name"`
	Score     float64 `json:"score"`
	Questions int     `json:"questions"`
}

// Report is derived data: generated once per submitted attempt and never
// mutated afterwards.
type Report struct {
	ID              string       `json:"id"`
	StudentID       string       `json:"student_id"`
	QuizID          string       `json:"quiz_id"`
	AttemptID       string       `json:"attempt_id"`
	Score           float64      `json:"score"`
	TotalQuestions  int          `json:"total_questions"`
	TopicScores     []TopicScore `json:"topic_scores"`
	WeakAreas       []string     `json:"weak_areas"`
	SuggestedTopics []string     `json:"suggested_topics"`
	GeneratedAt     int64        `json:"generated_at"`
}
