package attempt

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizforge-portal/internal/grading"
	"github.com/quizforge/quizforge-portal/internal/quiz"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSubmitted  State = "submitted"
)

var (
	// ErrInvalidQuiz rejects starting an attempt against a quiz with no
	// questions or no positive time limit.
	ErrInvalidQuiz = errors.New("quiz has no questions or no time limit")
	// ErrNotInProgress rejects mutations outside the InProgress state.
	ErrNotInProgress = errors.New("attempt is not in progress")
	// ErrAlreadySubmitted is what every caller after the first submitter sees.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
)

const defaultConfidence = 3

type recorded struct {
	value        string
	timeSpentSec int
	confidence   int
}

// Machine owns the lifecycle of one student's timed pass through one quiz:
// InProgress until an explicit submit or the countdown reaching zero, then
// Submitted forever. All transitions are mutex-guarded so a timeout tick
// racing a manual submit settles on exactly one scoring pass.
type Machine struct {
	mu sync.Mutex

	id        string
	quiz      quiz.Quiz
	studentID string

	// question snapshot taken at start; grading reflects the questions as
	// they existed then, not any later edits
	ordered []quiz.Question
	byID    map[string]quiz.Question

	answers   map[string]recorded
	cursor    int
	remaining int // seconds
	state     State
	startedAt time.Time

	grader grading.Grader
	now    func() time.Time

	result quiz.Attempt // valid once state == StateSubmitted
}

// Start validates the quiz, snapshots its questions and returns an
// InProgress machine with a full countdown and the cursor on question 0.
func Start(q quiz.Quiz, questions []quiz.Question, studentID string, grader grading.Grader, now func() time.Time) (*Machine, error) {
	if now == nil {
		now = time.Now
	}
	if q.TimeLimitMin <= 0 || len(q.QuestionIDs) == 0 {
		return nil, ErrInvalidQuiz
	}
	if studentID == "" {
		return nil, errors.New("student identity required")
	}
	byID := make(map[string]quiz.Question, len(questions))
	for _, qn := range questions {
		byID[qn.ID] = qn
	}
	return &Machine{
		id:        uuid.NewString(),
		quiz:      q,
		studentID: studentID,
		ordered:   questions,
		byID:      byID,
		answers:   map[string]recorded{},
		remaining: q.TimeLimitMin * 60,
		state:     StateInProgress,
		startedAt: now(),
		grader:    grader,
		now:       now,
	}, nil
}

func (m *Machine) ID() string        { return m.id }
func (m *Machine) QuizID() string    { return m.quiz.ID }
func (m *Machine) StudentID() string { return m.studentID }

// RecordAnswer stores the value for a question; a later write for the same
// question replaces the earlier one. The cursor does not move.
func (m *Machine) RecordAnswer(questionID, value string, timeSpentSec, confidence int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireInProgress(); err != nil {
		return err
	}
	found := false
	for _, id := range m.quiz.QuestionIDs {
		if id == questionID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("question %s is not part of this quiz", questionID)
	}
	if confidence < 1 || confidence > 5 {
		confidence = defaultConfidence
	}
	m.answers[questionID] = recorded{value: value, timeSpentSec: timeSpentSec, confidence: confidence}
	return nil
}

// Advance moves the cursor by delta, clamped to the question range. Moving
// past the last question never submits; submission is always explicit or
// timeout-driven.
func (m *Machine) Advance(delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.requireInProgress(); err != nil {
		return m.cursor, err
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if max := len(m.quiz.QuestionIDs) - 1; m.cursor > max {
		m.cursor = max
	}
	return m.cursor, nil
}

// Tick counts down one second. When the countdown reaches zero the attempt
// is submitted in the same critical section, so the returned attempt is the
// one and only scored record. The bool reports whether this tick fired the
// auto-submit.
func (m *Machine) Tick() (quiz.Attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateInProgress {
		return quiz.Attempt{}, false
	}
	if m.remaining > 0 {
		m.remaining--
	}
	if m.remaining > 0 {
		return quiz.Attempt{}, false
	}
	return m.submitLocked(), true
}

// Submit finalizes the attempt: one Answer per quiz question (unanswered
// questions count as wrong, keeping the full question count in the
// denominator), an aggregate percentage score, and the end timestamp.
func (m *Machine) Submit() (quiz.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateInProgress:
		return m.submitLocked(), nil
	case StateSubmitted:
		return quiz.Attempt{}, ErrAlreadySubmitted
	default:
		return quiz.Attempt{}, ErrNotInProgress
	}
}

func (m *Machine) submitLocked() quiz.Attempt {
	answers := make([]quiz.Answer, 0, len(m.quiz.QuestionIDs))
	correct := 0
	for _, qid := range m.quiz.QuestionIDs {
		rec := m.answers[qid] // zero value means unanswered
		qn, known := m.byID[qid]
		ok := known && m.grader.Correct(qn, rec.value)
		if ok {
			correct++
		}
		conf := rec.confidence
		if conf == 0 {
			conf = defaultConfidence
		}
		answers = append(answers, quiz.Answer{
			QuestionID:   qid,
			Value:        rec.value,
			Correct:      ok,
			TimeSpentSec: rec.timeSpentSec,
			Confidence:   conf,
		})
	}
	score := 100 * float64(correct) / float64(len(m.quiz.QuestionIDs))
	submittedAt := m.now().Unix()
	m.result = quiz.Attempt{
		ID:          m.id,
		QuizID:      m.quiz.ID,
		StudentID:   m.studentID,
		Status:      quiz.StatusSubmitted,
		Score:       score,
		StartedAt:   m.startedAt.Unix(),
		SubmittedAt: &submittedAt,
		Answers:     answers,
	}
	m.state = StateSubmitted
	return m.result
}

func (m *Machine) requireInProgress() error {
	switch m.state {
	case StateInProgress:
		return nil
	case StateSubmitted:
		return ErrAlreadySubmitted
	default:
		return ErrNotInProgress
	}
}

// View is the read model the presentation layer renders from.
type View struct {
	ID               string            `json:"id"`
	QuizID           string            `json:"quiz_id"`
	StudentID        string            `json:"student_id"`
	State            State             `json:"state"`
	RemainingSec     int               `json:"remaining_sec"`
	Cursor           int               `json:"cursor"`
	QuestionCount    int               `json:"question_count"`
	CurrentQuestion  *quiz.Question    `json:"current_question,omitempty"`
	Answers          map[string]string `json:"answers"`
	AnsweredCount    int               `json:"answered_count"`
	StartedAtUnix    int64             `json:"started_at"`
}

// Snapshot returns the current presentation view. The current question is
// served student-safe, with the answer key stripped.
func (m *Machine) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := View{
		ID:            m.id,
		QuizID:        m.quiz.ID,
		StudentID:     m.studentID,
		State:         m.state,
		RemainingSec:  m.remaining,
		Cursor:        m.cursor,
		QuestionCount: len(m.quiz.QuestionIDs),
		Answers:       make(map[string]string, len(m.answers)),
		StartedAtUnix: m.startedAt.Unix(),
	}
	for id, rec := range m.answers {
		v.Answers[id] = rec.value
	}
	v.AnsweredCount = len(m.answers)
	if m.cursor < len(m.quiz.QuestionIDs) {
		if qn, ok := m.byID[m.quiz.QuestionIDs[m.cursor]]; ok {
			qn.AnswerKey = nil
			qn.Explanation = ""
			v.CurrentQuestion = &qn
		}
	}
	return v
}

// Result returns the scored attempt once submitted.
func (m *Machine) Result() (quiz.Attempt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateSubmitted {
		return quiz.Attempt{}, false
	}
	return m.result, true
}
