package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		creatorID, _ := viewer(r)
		q.CreatedBy = creatorID
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.CreatedAt == 0 {
			q.CreatedAt = time.Now().Unix()
		}
		q.Published = false // publishing is a separate, deliberate step
		if err := quiz.ValidateQuiz(q); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Reject references to questions that do not exist at authoring
		// time; dangling ids are tolerated at read time only.
		for _, qid := range q.QuestionIDs {
			if _, err := store.GetQuestion(r.Context(), qid); err != nil {
				if errors.Is(err, quiz.ErrQuestionNotFound) {
					http.Error(w, "unknown question: "+qid, http.StatusBadRequest)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// GetQuizHandler returns a quiz with its resolved question list. Students
// only see published quizzes, and never the answer keys.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		q, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			if errors.Is(err, quiz.ErrQuizNotFound) {
				http.Error(w, "quiz not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, role := viewer(r)
		if role == "student" && !q.Published {
			http.Error(w, "quiz not found", http.StatusNotFound)
			return
		}
		questions, err := store.GetQuestions(r.Context(), q.QuestionIDs)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if role == "student" {
			for i := range questions {
				questions[i].AnswerKey = nil
				questions[i].Explanation = ""
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"quiz":      q,
			"questions": questions,
		})
	}
}

func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, viewerRole := viewer(r)
		list, err := store.ListQuizzes(r.Context(), quiz.ListOpts{
			Q:          strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
			ViewerID:   viewerID,
			ViewerRole: viewerRole,
			ClassID:    strings.TrimSpace(r.URL.Query().Get("class_id")),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// PublishQuizHandler flips a quiz live. A quiz must have at least one
// question and a positive time limit before students can start it.
func PublishQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		q, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			if errors.Is(err, quiz.ErrQuizNotFound) {
				http.Error(w, "quiz not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		viewerID, role := viewer(r)
		if role == "teacher" && q.CreatedBy != viewerID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if len(q.QuestionIDs) == 0 || q.TimeLimitMin <= 0 {
			http.Error(w, "quiz needs questions and a time limit before publishing", http.StatusConflict)
			return
		}
		if err := store.SetPublished(r.Context(), id, true); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
