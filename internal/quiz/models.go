package quiz

// Question types supported by the portal.
const (
	TypeMultipleChoice = "multiple-choice"
	TypeTrueFalse      = "true-false"
	TypeShortAnswer    = "short-answer"
)

type Question struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Type        string   `json:"type"`                  // multiple-choice, true-false, short-answer
	Options     []string `json:"options,omitempty"`     // multiple-choice only
	AnswerKey   []string `json:"answer_key,omitempty"`  // one or more acceptable answers
	Explanation string   `json:"explanation,omitempty"`
	Difficulty  string   `json:"difficulty"` // easy|medium|hard
	TopicID     string   `json:"topic_id"`
	ImageURL    string   `json:"image_url,omitempty"`
}

type Topic struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subject string `json:"subject"`
}

type Class struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Grade      string   `json:"grade"`
	TeacherID  string   `json:"teacher_id"`
	StudentIDs []string `json:"student_ids"`
}

type Quiz struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	CreatedBy    string   `json:"created_by"`
	ClassIDs     []string `json:"class_ids,omitempty"`
	TopicIDs     []string `json:"topic_ids,omitempty"`
	QuestionIDs  []string `json:"question_ids"`
	TimeLimitMin int      `json:"time_limit_min"`
	Published    bool     `json:"published"`
	CreatedAt    int64    `json:"created_at,omitempty"`
}

// QuizSummary is the list-view projection (no question bodies).
type QuizSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	CreatedBy     string `json:"created_by"`
	TimeLimitMin  int    `json:"time_limit_min"`
	QuestionCount int    `json:"question_count"`
	Published     bool   `json:"published"`
	CreatedAt     int64  `json:"created_at,omitempty"`
}

// Answer is one graded response inside a submitted attempt. Correct is
// computed once at submission time and never recomputed, even if the
// question record changes afterward.
type Answer struct {
	QuestionID   string `json:"question_id"`
	Value        string `json:"value"`
	Correct      bool   `json:"correct"`
	TimeSpentSec int    `json:"time_spent_sec"`
	Confidence   int    `json:"confidence,omitempty"` // 1-5
}

type Attempt struct {
	ID          string   `json:"id"`
	QuizID      string   `json:"quiz_id"`
	StudentID   string   `json:"student_id"`
	Status      string   `json:"status"` // in_progress|submitted
	Score       float64  `json:"score"`
	StartedAt   int64    `json:"started_at"`
	SubmittedAt *int64   `json:"submitted_at,omitempty"`
	Answers     []Answer `json:"answers"`
}

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
)
