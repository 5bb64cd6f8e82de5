package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quizforge/quizforge-portal/internal/quiz"
)

func CreateClassHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c quiz.Class
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if c.Name == "" {
			http.Error(w, "class name required", http.StatusBadRequest)
			return
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.TeacherID == "" {
			c.TeacherID, _ = viewer(r)
		}
		if err := store.PutClass(r.Context(), c); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

func GetClassHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := store.GetClass(r.Context(), chi.URLParam(r, "classID"))
		if err != nil {
			if errors.Is(err, quiz.ErrClassNotFound) {
				http.Error(w, "class not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// ListClassesHandler scopes teachers to their own classes; admin sees all.
func ListClassesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, role := viewer(r)
		teacherID := ""
		if role == "teacher" {
			teacherID = viewerID
		}
		classes, err := store.ListClasses(r.Context(), teacherID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, classes)
	}
}
