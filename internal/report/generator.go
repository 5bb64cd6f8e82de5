package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

// WeakThreshold is the per-topic score below which a topic is surfaced as a
// weak area (strictly below).
const WeakThreshold = 70.0

// ErrAttemptNotComplete rejects report generation for an attempt that has
// not been submitted.
var ErrAttemptNotComplete = errors.New("attempt is not complete")

// QuestionSource resolves the question a graded answer refers to.
// quiz.Store satisfies it.
type QuestionSource interface {
	GetQuestion(ctx context.Context, id string) (quiz.Question, error)
}

// TopicSource resolves topic records for labeling. quiz.Store satisfies it.
type TopicSource interface {
	GetTopic(ctx context.Context, id string) (quiz.Topic, error)
}

// Generator turns submitted attempts into persisted reports.
type Generator struct {
	questions QuestionSource
	topics    TopicSource
	store     Store
	now       func() time.Time
}

func NewGenerator(questions QuestionSource, topics TopicSource, store Store, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{questions: questions, topics: topics, store: store, now: now}
}

type topicAgg struct {
	correct int
	total   int
}

// Generate builds, persists and returns the report for a submitted attempt.
// Answers whose question record no longer exists are skipped from the topic
// aggregation rather than failing the whole report; topics end up in the
// breakdown only if at least one answer was attributed to them. Having no
// weak areas is a valid, good outcome, not an error.
func (g *Generator) Generate(ctx context.Context, a quiz.Attempt) (Report, error) {
	if a.SubmittedAt == nil {
		return Report{}, ErrAttemptNotComplete
	}

	agg := map[string]*topicAgg{}
	order := []string{} // first-seen topic order, keeps output deterministic
	for _, ans := range a.Answers {
		q, err := g.questions.GetQuestion(ctx, ans.QuestionID)
		if err != nil {
			if errors.Is(err, quiz.ErrQuestionNotFound) {
				continue // dangling reference: skip this answer's contribution
			}
			return Report{}, err
		}
		t, ok := agg[q.TopicID]
		if !ok {
			t = &topicAgg{}
			agg[q.TopicID] = t
			order = append(order, q.TopicID)
		}
		t.total++
		if ans.Correct {
			t.correct++
		}
	}

	r := Report{
		ID:              uuid.NewString(),
		StudentID:       a.StudentID,
		QuizID:          a.QuizID,
		AttemptID:       a.ID,
		Score:           a.Score,
		TotalQuestions:  len(a.Answers),
		TopicScores:     []TopicScore{},
		WeakAreas:       []string{},
		SuggestedTopics: []string{},
		GeneratedAt:     g.now().Unix(),
	}
	for _, topicID := range order {
		t := agg[topicID]
		score := 100 * float64(t.correct) / float64(t.total)
		name := g.topicName(ctx, topicID)
		r.TopicScores = append(r.TopicScores, TopicScore{
			TopicID:   topicID,
			TopicName: name,
			Score:     score,
			Questions: t.total,
		})
		if score < WeakThreshold {
			r.WeakAreas = append(r.WeakAreas, fmt.Sprintf("Needs improvement in %s", name))
			r.SuggestedTopics = append(r.SuggestedTopics, fmt.Sprintf("Review the fundamentals of %s", name))
		}
	}

	if err := g.store.PutReport(ctx, r); err != nil {
		return Report{}, err
	}
	return r, nil
}

func (g *Generator) topicName(ctx context.Context, id string) string {
	t, err := g.topics.GetTopic(ctx, id)
	if err != nil {
		return id // dangling topic reference: label by id
	}
	return t.Name
}
