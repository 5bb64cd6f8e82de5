package genai

import (
	"context"
	"testing"
	"time"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

func TestGenerateQuestionsCyclesTypes(t *testing.T) {
	p := NewTemplateProvider(0)
	qs, err := p.GenerateQuestions(context.Background(), Request{
		Topic:      "Data Structures",
		Difficulty: "medium",
		Count:      4,
		Types:      []string{quiz.TypeMultipleChoice, quiz.TypeTrueFalse},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(qs))
	}
	want := []string{quiz.TypeMultipleChoice, quiz.TypeTrueFalse, quiz.TypeMultipleChoice, quiz.TypeTrueFalse}
	for i, q := range qs {
		if q.Type != want[i] {
			t.Fatalf("question %d: expected type %s, got %s", i, want[i], q.Type)
		}
		if q.Difficulty != "medium" || q.TopicID != "topic-data-structures" {
			t.Fatalf("question %d: metadata not applied: %+v", i, q)
		}
		if err := quiz.ValidateQuestion(q); err != nil {
			t.Fatalf("generated question must satisfy authoring invariants: %v", err)
		}
	}
}

func TestGenerateQuestionsUnknownTopicFallsBack(t *testing.T) {
	p := NewTemplateProvider(0)
	qs, err := p.GenerateQuestions(context.Background(), Request{
		Topic: "Underwater Basket Weaving",
		Count: 2,
		Types: []string{quiz.TypeShortAnswer},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].TopicID != "topic-underwater-basket-weaving" {
		t.Fatalf("topic slug: %s", qs[0].TopicID)
	}
}

func TestGenerateQuestionsRejectsBadInput(t *testing.T) {
	p := NewTemplateProvider(0)
	if _, err := p.GenerateQuestions(context.Background(), Request{Topic: "Physics", Count: 0}); err == nil {
		t.Fatalf("expected error for zero count")
	}
	if _, err := p.GenerateQuestions(context.Background(), Request{Topic: "Physics", Count: 1, Types: []string{"essay"}}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestDelayHonorsContext(t *testing.T) {
	p := NewTemplateProvider(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.GenerateQuestions(ctx, Request{Topic: "Physics", Count: 1}); err == nil {
		t.Fatalf("expected context cancellation error")
	}
}

func TestAnalyzePerformance(t *testing.T) {
	p := NewTemplateProvider(0)
	a, err := p.AnalyzePerformance(context.Background(), []float64{90, 40}, []string{"Algorithms", "Mechanics"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// avg 65: fundamentals strength; per-topic: one excellent, one weak.
	if len(a.Strengths) != 2 {
		t.Fatalf("expected overall + per-topic strength, got %+v", a.Strengths)
	}
	if len(a.Weaknesses) != 1 || a.Weaknesses[0] != "Needs improvement in Mechanics" {
		t.Fatalf("unexpected weaknesses: %+v", a.Weaknesses)
	}
}
