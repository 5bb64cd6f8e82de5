package grading

import (
	"testing"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

func TestExactMatchShortAnswer(t *testing.T) {
	g := NewDefaultGrader()
	q := quiz.Question{
		ID:        "q1",
		Type:      quiz.TypeShortAnswer,
		AnswerKey: []string{"contiguous memory", "contiguous allocation"},
	}

	if !g.Correct(q, "contiguous memory") {
		t.Fatalf("expected exact match to grade correct")
	}
	if !g.Correct(q, "contiguous allocation") {
		t.Fatalf("expected alternate key to grade correct")
	}
	// No normalization: case and whitespace differences grade wrong.
	if g.Correct(q, "Contiguous Memory") {
		t.Fatalf("case-insensitive match should grade wrong")
	}
	if g.Correct(q, " contiguous memory") {
		t.Fatalf("whitespace difference should grade wrong")
	}
	if g.Correct(q, "") {
		t.Fatalf("empty value should grade wrong")
	}
}

func TestMultipleChoiceLiteralOption(t *testing.T) {
	g := NewDefaultGrader()
	q := quiz.Question{
		ID:        "q2",
		Type:      quiz.TypeMultipleChoice,
		Options:   []string{"O(1)", "O(log n)", "O(n)"},
		AnswerKey: []string{"O(log n)"},
	}

	if !g.Correct(q, "O(log n)") {
		t.Fatalf("expected literal option match")
	}
	if g.Correct(q, "O(n)") {
		t.Fatalf("wrong option should grade wrong")
	}
	if g.Correct(q, "log n") {
		t.Fatalf("value outside the option list should grade wrong")
	}
}

func TestTrueFalse(t *testing.T) {
	g := NewDefaultGrader()
	q := quiz.Question{ID: "q3", Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"}}

	if !g.Correct(q, "true") {
		t.Fatalf("expected true to match")
	}
	if g.Correct(q, "false") {
		t.Fatalf("false should grade wrong")
	}
}

func TestUnknownTypeGradesWrong(t *testing.T) {
	g := NewDefaultGrader()
	q := quiz.Question{ID: "q4", Type: "essay", AnswerKey: []string{"anything"}}
	if g.Correct(q, "anything") {
		t.Fatalf("unknown type should never grade correct")
	}
}
