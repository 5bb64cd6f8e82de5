package quiz

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps everything in maps. Used by tests and by the genai
// preview flow, where generated questions are staged before a teacher
// saves them.
type MemoryStore struct {
	mu       sync.RWMutex
	quizzes  map[string]Quiz
	question map[string]Question
	topics   map[string]Topic
	classes  map[string]Class
	attempts map[string]Attempt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes:  map[string]Quiz{},
		question: map[string]Question{},
		topics:   map[string]Topic{},
		classes:  map[string]Class{},
		attempts: map[string]Attempt{},
	}
}

func (m *MemoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *MemoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (m *MemoryStore) SetPublished(_ context.Context, id string, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return ErrQuizNotFound
	}
	q.Published = published
	m.quizzes[id] = q
	return nil
}

func (m *MemoryStore) ListQuizzes(_ context.Context, opts ListOpts) ([]QuizSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []QuizSummary{}
	for _, q := range m.quizzes {
		if !visibleTo(q, opts) {
			continue
		}
		if opts.Q != "" && !strings.Contains(strings.ToLower(q.Title), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, summarize(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return window(out, opts.Limit, opts.Offset), nil
}

func (m *MemoryStore) PutQuestion(_ context.Context, q Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.question[q.ID] = q
	return nil
}

func (m *MemoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.question[id]
	if !ok {
		return Question{}, ErrQuestionNotFound
	}
	return q, nil
}

func (m *MemoryStore) GetQuestions(ctx context.Context, ids []string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := m.question[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MemoryStore) PutTopic(_ context.Context, t Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics[t.ID] = t
	return nil
}

func (m *MemoryStore) GetTopic(_ context.Context, id string) (Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.topics[id]
	if !ok {
		return Topic{}, ErrTopicNotFound
	}
	return t, nil
}

func (m *MemoryStore) ListTopics(_ context.Context) ([]Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Topic, 0, len(m.topics))
	for _, t := range m.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) PutClass(_ context.Context, c Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[c.ID] = c
	return nil
}

func (m *MemoryStore) GetClass(_ context.Context, id string) (Class, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classes[id]
	if !ok {
		return Class{}, ErrClassNotFound
	}
	return c, nil
}

func (m *MemoryStore) ListClasses(_ context.Context, teacherID string) ([]Class, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Class{}
	for _, c := range m.classes {
		if teacherID == "" || c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) SaveAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = a
	return nil
}

func (m *MemoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *MemoryStore) ListAttempts(_ context.Context, opts AttemptListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Attempt{}
	for _, a := range m.attempts {
		if opts.QuizID != "" && a.QuizID != opts.QuizID {
			continue
		}
		if opts.StudentID != "" && a.StudentID != opts.StudentID {
			continue
		}
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt > out[j].StartedAt })
	return window(out, opts.Limit, opts.Offset), nil
}

func visibleTo(q Quiz, opts ListOpts) bool {
	switch opts.ViewerRole {
	case "student":
		return q.Published && contains(q.ClassIDs, opts.ClassID)
	case "teacher":
		return q.CreatedBy == opts.ViewerID
	default: // admin and internal callers
		return true
	}
}

func summarize(q Quiz) QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Title:         q.Title,
		Description:   q.Description,
		CreatedBy:     q.CreatedBy,
		TimeLimitMin:  q.TimeLimitMin,
		QuestionCount: len(q.QuestionIDs),
		Published:     q.Published,
		CreatedAt:     q.CreatedAt,
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func window[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
