package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge-portal/internal/attempt"
	"github.com/quizforge/quizforge-portal/internal/grading"
	"github.com/quizforge/quizforge-portal/internal/quiz"
)

// StartAttemptHandler spins up a live countdown machine for the caller.
// The quiz must be published and, when it is assigned to classes, the
// student must belong to one of them.
func StartAttemptHandler(store quiz.Store, reg *attempt.Registry, grader grading.Grader, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuizID string `json:"quiz_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuizID == "" {
			http.Error(w, "quiz_id required", http.StatusBadRequest)
			return
		}
		studentID, role := viewer(r)
		if studentID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q, err := store.GetQuiz(r.Context(), req.QuizID)
		if err != nil {
			if errors.Is(err, quiz.ErrQuizNotFound) {
				http.Error(w, "quiz not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !q.Published {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		if role == "student" && len(q.ClassIDs) > 0 && db != nil {
			classID := studentClassID(r, db, studentID)
			if !containsString(q.ClassIDs, classID) {
				http.Error(w, "quiz not assigned to your class", http.StatusForbidden)
				return
			}
		}

		questions, err := store.GetQuestions(r.Context(), q.QuestionIDs)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		m, err := attempt.Start(q, questions, studentID, grader, nil)
		if err != nil {
			if errors.Is(err, attempt.ErrInvalidQuiz) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reg.Add(m)
		writeJSON(w, http.StatusCreated, m.Snapshot())
	}
}

// SaveAnswerHandler records (or overwrites) the answer to one question.
func SaveAnswerHandler(reg *attempt.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := ownedMachine(w, r, reg)
		if !ok {
			return
		}
		var req struct {
			QuestionID   string `json:"question_id"`
			Value        string `json:"value"`
			TimeSpentSec int    `json:"time_spent_sec"`
			Confidence   int    `json:"confidence"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
			http.Error(w, "question_id required", http.StatusBadRequest)
			return
		}
		if err := m.RecordAnswer(req.QuestionID, req.Value, req.TimeSpentSec, req.Confidence); err != nil {
			writeAttemptErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m.Snapshot())
	}
}

// AdvanceAttemptHandler moves the cursor; delta may be negative. The
// cursor clamps to the question range and never triggers a submit.
func AdvanceAttemptHandler(reg *attempt.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, ok := ownedMachine(w, r, reg)
		if !ok {
			return
		}
		var req struct {
			Delta int `json:"delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if _, err := m.Advance(req.Delta); err != nil {
			writeAttemptErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, m.Snapshot())
	}
}

// GetAttemptHandler serves the live snapshot while the attempt is in
// progress and falls back to the persisted record once submitted.
func GetAttemptHandler(store quiz.Store, reg *attempt.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		viewerID, role := viewer(r)

		if m, ok := reg.Get(id); ok {
			if role == "student" && m.StudentID() != viewerID {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			writeJSON(w, http.StatusOK, m.Snapshot())
			return
		}

		a, err := store.GetAttempt(r.Context(), id)
		if err != nil {
			if errors.Is(err, quiz.ErrAttemptNotFound) {
				http.Error(w, "attempt not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if role == "student" && a.StudentID != viewerID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// SubmitAttemptHandler finalizes a live attempt. The first submitter
// wins; anything after that is a conflict, including a racing timeout.
func SubmitAttemptHandler(reg *attempt.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		viewerID, role := viewer(r)
		if m, ok := reg.Get(id); ok && role == "student" && m.StudentID() != viewerID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		a, err := reg.Submit(r.Context(), id)
		if err != nil {
			writeAttemptErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// ListAttemptsHandler lists persisted attempts. Students only ever see
// their own, whatever filters they send.
func ListAttemptsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, role := viewer(r)
		opts := quiz.AttemptListOpts{
			QuizID:    r.URL.Query().Get("quiz_id"),
			StudentID: r.URL.Query().Get("student_id"),
			Status:    r.URL.Query().Get("status"),
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:    parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		if role == "student" {
			opts.StudentID = viewerID
		}
		list, err := store.ListAttempts(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// ownedMachine resolves the live machine for the route's attempt id and
// enforces that students only touch their own attempts.
func ownedMachine(w http.ResponseWriter, r *http.Request, reg *attempt.Registry) (*attempt.Machine, bool) {
	id := chi.URLParam(r, "attemptID")
	m, ok := reg.Get(id)
	if !ok {
		http.Error(w, "attempt not found", http.StatusNotFound)
		return nil, false
	}
	viewerID, role := viewer(r)
	if role == "student" && m.StudentID() != viewerID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return m, true
}

func writeAttemptErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrAttemptNotFound):
		http.Error(w, "attempt not found", http.StatusNotFound)
	case errors.Is(err, attempt.ErrAlreadySubmitted), errors.Is(err, attempt.ErrNotInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func studentClassID(r *http.Request, db *sql.DB, studentID string) string {
	var classID string
	_ = db.QueryRowContext(r.Context(),
		`SELECT class_id FROM users WHERE id=$1`, studentID).Scan(&classID)
	return classID
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
