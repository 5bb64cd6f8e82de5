package grading

import (
	"github.com/quizforge/quizforge-portal/internal/quiz"
)

// Grader decides whether a submitted value matches a question's answer key.
// Matching is exact string equality against any acceptable answer: for
// multiple-choice the value must equal the literal option text, and
// short-answer responses get no normalization. An empty value never matches.
type Grader interface {
	Correct(q quiz.Question, value string) bool
}

// Strategy grades a single question type.
type Strategy interface {
	Match(q quiz.Question, value string) bool
}

type defaultGrader struct {
	strategies map[string]Strategy
}

// NewDefaultGrader installs the built-in per-type strategies.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[string]Strategy{
			quiz.TypeMultipleChoice: choiceStrategy{},
			quiz.TypeTrueFalse:      exactStrategy{},
			quiz.TypeShortAnswer:    exactStrategy{},
		},
	}
}

func (g *defaultGrader) Correct(q quiz.Question, value string) bool {
	if value == "" {
		return false
	}
	s, ok := g.strategies[q.Type]
	if !ok {
		return false
	}
	return s.Match(q, value)
}

// exactStrategy accepts a value equal to any answer-key entry.
type exactStrategy struct{}

func (exactStrategy) Match(q quiz.Question, value string) bool {
	for _, k := range q.AnswerKey {
		if value == k {
			return true
		}
	}
	return false
}

// choiceStrategy additionally requires the value to be one of the listed
// options, so a key match on a question with a corrupted option list still
// grades false.
type choiceStrategy struct{}

func (choiceStrategy) Match(q quiz.Question, value string) bool {
	opt := false
	for _, o := range q.Options {
		if value == o {
			opt = true
			break
		}
	}
	if !opt {
		return false
	}
	return exactStrategy{}.Match(q, value)
}
