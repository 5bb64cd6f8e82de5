package genai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

// Request describes a question-generation call. Generated questions are
// ordinary domain records subject to the same invariants as hand-authored
// ones; the attempt workflow never depends on generation completing.
type Request struct {
	Topic         string   `json:"topic"`
	Difficulty    string   `json:"difficulty"` // easy|medium|hard
	Count         int      `json:"count"`
	Types         []string `json:"types"`
	Grade         string   `json:"grade,omitempty"`
	FocusKeywords string   `json:"focus_keywords,omitempty"`
}

type Analysis struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}

// Provider is the content-generation collaborator. The template
// implementation below is deterministic; a real backend can replace it
// without touching the rest of the portal.
type Provider interface {
	GenerateQuestions(ctx context.Context, req Request) ([]quiz.Question, error)
	StudyRecommendations(ctx context.Context, topic, difficulty string) ([]string, error)
	AnalyzePerformance(ctx context.Context, scores []float64, topics []string) (Analysis, error)
}

// TemplateProvider serves canned per-topic question banks with an
// artificial delay standing in for inference latency. The delay honors
// context cancellation.
type TemplateProvider struct {
	Delay time.Duration
}

func NewTemplateProvider(delay time.Duration) *TemplateProvider {
	return &TemplateProvider{Delay: delay}
}

func (p *TemplateProvider) wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.Delay):
		return nil
	}
}

func (p *TemplateProvider) GenerateQuestions(ctx context.Context, req Request) ([]quiz.Question, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	if req.Count <= 0 {
		return nil, errors.New("count must be positive")
	}
	types := req.Types
	if len(types) == 0 {
		types = []string{quiz.TypeMultipleChoice}
	}
	for _, t := range types {
		switch t {
		case quiz.TypeMultipleChoice, quiz.TypeTrueFalse, quiz.TypeShortAnswer:
		default:
			return nil, errors.New("unknown question type " + t)
		}
	}

	bank, ok := topicBanks[req.Topic]
	if !ok {
		bank = topicBanks["Data Structures"]
	}
	topicID := TopicSlug(req.Topic)

	out := make([]quiz.Question, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		qt := types[i%len(types)]
		var q quiz.Question
		if tmpl := bank.pick(qt, i); tmpl != nil {
			q = quiz.Question{
				Text:        tmpl.text,
				Type:        qt,
				Options:     tmpl.options,
				AnswerKey:   []string{tmpl.answer},
				Explanation: tmpl.explanation,
			}
		} else {
			q = genericQuestion(req.Topic, qt, req.FocusKeywords)
		}
		q.ID = uuid.NewString()
		q.Difficulty = req.Difficulty
		q.TopicID = topicID
		if err := quiz.ValidateQuestion(q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (p *TemplateProvider) StudyRecommendations(ctx context.Context, topic, difficulty string) ([]string, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return []string{
		"Focus on understanding the core concepts of " + topic + " before moving to advanced topics",
		"Practice implementing " + topic + " concepts through exercises",
		"Review real-world applications of " + topic + " to better understand its importance",
		"Connect " + topic + " with related subjects for a comprehensive understanding",
	}, nil
}

func (p *TemplateProvider) AnalyzePerformance(ctx context.Context, scores []float64, topics []string) (Analysis, error) {
	if err := p.wait(ctx); err != nil {
		return Analysis{}, err
	}
	a := Analysis{Strengths: []string{}, Weaknesses: []string{}, Recommendations: []string{}}
	if len(scores) == 0 {
		return a, nil
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))
	switch {
	case avg >= 80:
		a.Strengths = append(a.Strengths, "Strong overall performance across topics")
		a.Recommendations = append(a.Recommendations, "Consider taking on more challenging problems")
	case avg >= 60:
		a.Strengths = append(a.Strengths, "Good grasp of fundamental concepts")
		a.Recommendations = append(a.Recommendations, "Focus on practicing more complex scenarios")
	default:
		a.Weaknesses = append(a.Weaknesses, "Need to strengthen basic understanding")
		a.Recommendations = append(a.Recommendations, "Review fundamental concepts before moving forward")
	}
	for i, s := range scores {
		if i >= len(topics) || topics[i] == "" {
			continue
		}
		switch {
		case s >= 80:
			a.Strengths = append(a.Strengths, "Excellent understanding of "+topics[i])
		case s < 60:
			a.Weaknesses = append(a.Weaknesses, "Needs improvement in "+topics[i])
			a.Recommendations = append(a.Recommendations, "Spend more time studying "+topics[i]+" fundamentals")
		}
	}
	return a, nil
}

// TopicSlug derives the topic id generated questions are filed under.
func TopicSlug(topic string) string {
	return "topic-" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(topic)), " ", "-")
}

func genericQuestion(topic, questionType, focus string) quiz.Question {
	switch questionType {
	case quiz.TypeMultipleChoice:
		correct := "Primary principle of " + topic
		return quiz.Question{
			Text: "Which of the following best describes a key concept in " + topic + focusSuffix(focus) + "?",
			Options: []string{
				correct,
				"Secondary consideration",
				"Unrelated concept",
				"Alternative approach",
			},
			AnswerKey:   []string{correct},
			Explanation: "This question tests understanding of fundamental concepts in " + topic + ".",
		}
	case quiz.TypeTrueFalse:
		return quiz.Question{
			Text:        topic + " involves theoretical frameworks that require deep understanding.",
			AnswerKey:   []string{"true"},
			Explanation: "Most academic subjects, including " + topic + ", involve theoretical concepts.",
		}
	default:
		kw := focus
		if kw == "" {
			kw = "core principles"
		}
		return quiz.Question{
			Text:        "Explain the significance of " + kw + " in " + topic + ".",
			AnswerKey:   []string{upperFirst(kw) + " in " + topic + " form the foundation for understanding advanced concepts and practical applications."},
			Explanation: "Evaluates understanding of fundamental concepts in " + topic + ".",
		}
	}
}

func focusSuffix(focus string) string {
	if focus == "" {
		return ""
	}
	return " related to " + focus
}

func upperFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
