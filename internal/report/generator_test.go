package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

func fixedNow() time.Time { return time.Unix(1700000000, 0) }

func seedStore(t *testing.T) *quiz.MemoryStore {
	t.Helper()
	ctx := context.Background()
	st := quiz.NewMemoryStore()
	topics := []quiz.Topic{
		{ID: "topic1", Name: "Data Structures", Subject: "Computer Science"},
		{ID: "topic2", Name: "Algorithms", Subject: "Computer Science"},
	}
	for _, tp := range topics {
		if err := st.PutTopic(ctx, tp); err != nil {
			t.Fatalf("seed topic: %v", err)
		}
	}
	questions := []quiz.Question{
		{ID: "q1", Text: "a", Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"}, TopicID: "topic1"},
		{ID: "q2", Text: "b", Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"}, TopicID: "topic1"},
		{ID: "q3", Text: "c", Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"}, TopicID: "topic2"},
		{ID: "q4", Text: "d", Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"}, TopicID: "topic2"},
	}
	for _, q := range questions {
		if err := st.PutQuestion(ctx, q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	return st
}

func submittedAttempt(answers []quiz.Answer, score float64) quiz.Attempt {
	at := fixedNow().Unix()
	return quiz.Attempt{
		ID:          "attempt1",
		QuizID:      "quiz1",
		StudentID:   "student1",
		Status:      quiz.StatusSubmitted,
		Score:       score,
		StartedAt:   at - 60,
		SubmittedAt: &at,
		Answers:     answers,
	}
}

func TestGenerateRejectsIncompleteAttempt(t *testing.T) {
	st := seedStore(t)
	g := NewGenerator(st, st, NewMemoryStore(), fixedNow)
	a := submittedAttempt(nil, 0)
	a.SubmittedAt = nil
	if _, err := g.Generate(context.Background(), a); !errors.Is(err, ErrAttemptNotComplete) {
		t.Fatalf("expected ErrAttemptNotComplete, got %v", err)
	}
}

func TestTopicAggregation(t *testing.T) {
	st := seedStore(t)
	reports := NewMemoryStore()
	g := NewGenerator(st, st, reports, fixedNow)

	// topic1: 2/2 correct; topic2: 1/2 correct.
	a := submittedAttempt([]quiz.Answer{
		{QuestionID: "q1", Value: "true", Correct: true},
		{QuestionID: "q2", Value: "true", Correct: true},
		{QuestionID: "q3", Value: "true", Correct: true},
		{QuestionID: "q4", Value: "false", Correct: false},
	}, 75)

	r, err := g.Generate(context.Background(), a)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(r.TopicScores) != 2 {
		t.Fatalf("expected 2 topic rows, got %d", len(r.TopicScores))
	}
	if r.TopicScores[0].TopicID != "topic1" || r.TopicScores[0].Score != 100 {
		t.Fatalf("topic1 expected 100, got %+v", r.TopicScores[0])
	}
	if r.TopicScores[1].TopicID != "topic2" || r.TopicScores[1].Score != 50 {
		t.Fatalf("topic2 expected 50, got %+v", r.TopicScores[1])
	}
	// Only topic2 (50 < 70) is weak; 100 is not.
	if len(r.WeakAreas) != 1 || len(r.SuggestedTopics) != 1 {
		t.Fatalf("expected one weak area and one suggestion, got %+v / %+v", r.WeakAreas, r.SuggestedTopics)
	}
	if r.WeakAreas[0] != "Needs improvement in Algorithms" {
		t.Fatalf("weak area should be labeled by topic name, got %q", r.WeakAreas[0])
	}

	// Persisted once.
	stored, err := reports.GetReport(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("expected persisted report: %v", err)
	}
	if stored.Score != 75 || stored.TotalQuestions != 4 {
		t.Fatalf("unexpected stored report: %+v", stored)
	}
}

func TestPerfectScoreNoWeakAreas(t *testing.T) {
	st := seedStore(t)
	g := NewGenerator(st, st, NewMemoryStore(), fixedNow)

	a := submittedAttempt([]quiz.Answer{
		{QuestionID: "q1", Value: "true", Correct: true},
		{QuestionID: "q2", Value: "true", Correct: true},
	}, 100)

	r, err := g.Generate(context.Background(), a)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if r.Score != 100 || len(r.WeakAreas) != 0 || len(r.SuggestedTopics) != 0 {
		t.Fatalf("perfect score must yield no weak areas or suggestions: %+v", r)
	}
}

func TestAllWrongSingleTopic(t *testing.T) {
	st := seedStore(t)
	g := NewGenerator(st, st, NewMemoryStore(), fixedNow)

	a := submittedAttempt([]quiz.Answer{
		{QuestionID: "q1", Value: "false", Correct: false},
		{QuestionID: "q2", Value: "", Correct: false},
	}, 0)

	r, err := g.Generate(context.Background(), a)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(r.TopicScores) != 1 || r.TopicScores[0].Score != 0 {
		t.Fatalf("expected single topic at 0%%, got %+v", r.TopicScores)
	}
	if len(r.WeakAreas) != 1 || r.WeakAreas[0] != "Needs improvement in Data Structures" {
		t.Fatalf("expected Data Structures flagged weak, got %+v", r.WeakAreas)
	}
	if len(r.SuggestedTopics) != 1 {
		t.Fatalf("expected one suggestion, got %+v", r.SuggestedTopics)
	}
}

func TestDanglingQuestionReferenceSkipped(t *testing.T) {
	st := seedStore(t)
	g := NewGenerator(st, st, NewMemoryStore(), fixedNow)

	a := submittedAttempt([]quiz.Answer{
		{QuestionID: "q1", Value: "true", Correct: true},
		{QuestionID: "ghost", Value: "x", Correct: false}, // no such question
	}, 50)

	r, err := g.Generate(context.Background(), a)
	if err != nil {
		t.Fatalf("dangling reference must not fail the report: %v", err)
	}
	if len(r.TopicScores) != 1 || r.TopicScores[0].TopicID != "topic1" {
		t.Fatalf("dangling answer must be omitted from aggregation, got %+v", r.TopicScores)
	}
	if r.TopicScores[0].Questions != 1 || r.TopicScores[0].Score != 100 {
		t.Fatalf("unexpected aggregation: %+v", r.TopicScores[0])
	}
	// Total question count still reflects the whole attempt.
	if r.TotalQuestions != 2 {
		t.Fatalf("expected total questions 2, got %d", r.TotalQuestions)
	}
}

func TestExactThresholdNotWeak(t *testing.T) {
	st := seedStore(t)
	g := NewGenerator(st, st, NewMemoryStore(), fixedNow)

	// Craft 7/10 correct in topic1 => exactly 70, which is NOT weak.
	ctx := context.Background()
	answers := []quiz.Answer{}
	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		if err := st.PutQuestion(ctx, quiz.Question{
			ID: id, Text: id, Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"}, TopicID: "topic1",
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		answers = append(answers, quiz.Answer{QuestionID: id, Value: "true", Correct: i < 7})
	}

	r, err := g.Generate(ctx, submittedAttempt(answers, 70))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(r.WeakAreas) != 0 {
		t.Fatalf("exactly 70%% must not be weak (strictly below), got %+v", r.WeakAreas)
	}
}
