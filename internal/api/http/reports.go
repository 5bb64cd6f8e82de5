package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge-portal/internal/report"
)

func GetReportHandler(store report.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := store.GetReport(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			if errors.Is(err, report.ErrReportNotFound) {
				http.Error(w, "report not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		viewerID, role := viewer(r)
		if role == "student" && rep.StudentID != viewerID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// ListReportsHandler lists generated reports. Students are pinned to
// their own regardless of query filters.
func ListReportsHandler(store report.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID, role := viewer(r)
		opts := report.ListOpts{
			StudentID: r.URL.Query().Get("student_id"),
			QuizID:    r.URL.Query().Get("quiz_id"),
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:    parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		if role == "student" {
			opts.StudentID = viewerID
		}
		list, err := store.ListReports(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
