package http

import (
	"encoding/json"
	"net/http"

	"github.com/quizforge/quizforge-portal/internal/genai"
	"github.com/quizforge/quizforge-portal/internal/quiz"
)

// GenerateQuestionsHandler produces questions from the content provider.
// With save=true the questions (and their topic, if new) are persisted so
// a quiz can reference them immediately.
func GenerateQuestionsHandler(provider genai.Provider, store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			genai.Request
			Save bool `json:"save"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Topic == "" {
			http.Error(w, "topic required", http.StatusBadRequest)
			return
		}
		if req.Count <= 0 {
			req.Count = 5
		}
		if req.Count > 50 {
			req.Count = 50
		}

		qs, err := provider.GenerateQuestions(r.Context(), req.Request)
		if err != nil {
			if r.Context().Err() != nil {
				return // client went away during the generation delay
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.Save {
			topicID := genai.TopicSlug(req.Topic)
			if _, err := store.GetTopic(r.Context(), topicID); err != nil {
				if err := store.PutTopic(r.Context(), quiz.Topic{ID: topicID, Name: req.Topic}); err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
			}
			for _, q := range qs {
				if err := store.PutQuestion(r.Context(), q); err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
			}
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func StudyRecommendationsHandler(provider genai.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic      string `json:"topic"`
			Difficulty string `json:"difficulty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
			http.Error(w, "topic required", http.StatusBadRequest)
			return
		}
		recs, err := provider.StudyRecommendations(r.Context(), req.Topic, req.Difficulty)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
	}
}

func AnalyzePerformanceHandler(provider genai.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Scores []float64 `json:"scores"`
			Topics []string  `json:"topics"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		a, err := provider.AnalyzePerformance(r.Context(), req.Scores, req.Topics)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}
