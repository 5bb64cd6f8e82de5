package http

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/quizforge/quizforge-portal/internal/storage"
)

// MountAssets serves question illustration uploads. Keys are scoped per
// question; the returned key goes into the question's image_url field.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	// POST /assets/questions/{questionID}
	r.Post("/questions/{questionID}", func(w http.ResponseWriter, r *http.Request) {
		questionID := chi.URLParam(r, "questionID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		name := path.Base(hdr.Filename)
		if name == "" || name == "." || name == "/" {
			name = "image.bin"
		}
		key := "questions/" + questionID + "/" + name
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key})
	})

	// GET /assets/*   -> returns the blob at whatever follows /assets/
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	})
}
