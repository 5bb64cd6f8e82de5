package quiz

import "context"

type ListOpts struct {
	Q          string
	Limit      int
	Offset     int
	ViewerID   string
	ViewerRole string // "student" | "teacher" | "admin"
	ClassID    string // student scoping: only published quizzes assigned to this class
}

type AttemptListOpts struct {
	QuizID    string
	StudentID string
	Status    string // optional: in_progress|submitted
	Limit     int
	Offset    int
}

// Store is the repository boundary the attempt workflow and the handlers
// consume. Implementations: SQLStore (sqlite/postgres) and MemoryStore.
type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	SetPublished(ctx context.Context, id string, published bool) error
	ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error)

	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	GetQuestions(ctx context.Context, ids []string) ([]Question, error)

	PutTopic(ctx context.Context, t Topic) error
	GetTopic(ctx context.Context, id string) (Topic, error)
	ListTopics(ctx context.Context) ([]Topic, error)

	PutClass(ctx context.Context, c Class) error
	GetClass(ctx context.Context, id string) (Class, error)
	ListClasses(ctx context.Context, teacherID string) ([]Class, error)

	SaveAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)
}
