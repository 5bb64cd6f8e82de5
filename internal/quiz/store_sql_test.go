package quiz_test

import (
	"context"
	"testing"

	"github.com/quizforge/quizforge-portal/internal/db"
	"github.com/quizforge/quizforge-portal/internal/quiz"
)

func openStores(t *testing.T) []struct {
	name  string
	store quiz.Store
} {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return []struct {
		name  string
		store quiz.Store
	}{
		{"memory", quiz.NewMemoryStore()},
		{"sqlite", quiz.NewSQLStore(dbh)},
	}
}

func TestQuizRoundTripAndPublish(t *testing.T) {
	ctx := context.Background()
	for _, tc := range openStores(t) {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.store
			if err := st.PutQuestion(ctx, quiz.Question{
				ID: "q1", Text: "2+2?", Type: quiz.TypeShortAnswer, AnswerKey: []string{"4"}, TopicID: "t1",
			}); err != nil {
				t.Fatalf("put question: %v", err)
			}
			q := quiz.Quiz{
				ID: "quiz1", Title: "Arithmetic", CreatedBy: "teacher1",
				ClassIDs: []string{"c1"}, QuestionIDs: []string{"q1"},
				TimeLimitMin: 10, CreatedAt: 1700000000,
			}
			if err := st.PutQuiz(ctx, q); err != nil {
				t.Fatalf("put quiz: %v", err)
			}
			got, err := st.GetQuiz(ctx, "quiz1")
			if err != nil {
				t.Fatalf("get quiz: %v", err)
			}
			if got.Title != "Arithmetic" || len(got.QuestionIDs) != 1 || got.Published {
				t.Fatalf("round trip mismatch: %+v", got)
			}

			if err := st.SetPublished(ctx, "quiz1", true); err != nil {
				t.Fatalf("publish: %v", err)
			}
			got, _ = st.GetQuiz(ctx, "quiz1")
			if !got.Published {
				t.Fatalf("publish did not stick")
			}
			if err := st.SetPublished(ctx, "missing", true); err != quiz.ErrQuizNotFound {
				t.Fatalf("expected ErrQuizNotFound, got %v", err)
			}
		})
	}
}

func TestListQuizzesVisibility(t *testing.T) {
	ctx := context.Background()
	for _, tc := range openStores(t) {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.store
			quizzes := []quiz.Quiz{
				{ID: "pub-c1", Title: "Published C1", CreatedBy: "t1", ClassIDs: []string{"c1"},
					QuestionIDs: []string{"x"}, TimeLimitMin: 5, Published: true, CreatedAt: 3},
				{ID: "pub-c2", Title: "Published C2", CreatedBy: "t1", ClassIDs: []string{"c2"},
					QuestionIDs: []string{"x"}, TimeLimitMin: 5, Published: true, CreatedAt: 2},
				{ID: "draft", Title: "Draft", CreatedBy: "t1",
					TimeLimitMin: 5, CreatedAt: 1},
				{ID: "other", Title: "Other Teacher", CreatedBy: "t2",
					QuestionIDs: []string{"x"}, TimeLimitMin: 5, Published: true, CreatedAt: 0},
			}
			for _, q := range quizzes {
				if err := st.PutQuiz(ctx, q); err != nil {
					t.Fatalf("seed: %v", err)
				}
			}

			// Student in c1 sees only the published quiz assigned to c1.
			got, err := st.ListQuizzes(ctx, quiz.ListOpts{ViewerID: "s1", ViewerRole: "student", ClassID: "c1"})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 1 || got[0].ID != "pub-c1" {
				t.Fatalf("student scoping wrong: %+v", got)
			}

			// Teacher sees only their own quizzes, drafts included.
			got, err = st.ListQuizzes(ctx, quiz.ListOpts{ViewerID: "t1", ViewerRole: "teacher"})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("teacher should see 3 own quizzes, got %d", len(got))
			}

			// Admin sees everything; title search narrows it.
			got, err = st.ListQuizzes(ctx, quiz.ListOpts{ViewerRole: "admin", Q: "other"})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 1 || got[0].ID != "other" {
				t.Fatalf("search wrong: %+v", got)
			}
		})
	}
}

func TestGetQuestionsSkipsDangling(t *testing.T) {
	ctx := context.Background()
	for _, tc := range openStores(t) {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.store
			if err := st.PutQuestion(ctx, quiz.Question{
				ID: "q1", Text: "a", Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"},
			}); err != nil {
				t.Fatalf("put: %v", err)
			}
			qs, err := st.GetQuestions(ctx, []string{"q1", "ghost"})
			if err != nil {
				t.Fatalf("get questions: %v", err)
			}
			if len(qs) != 1 || qs[0].ID != "q1" {
				t.Fatalf("dangling id should be skipped, got %+v", qs)
			}
		})
	}
}

func TestAttemptPersistence(t *testing.T) {
	ctx := context.Background()
	for _, tc := range openStores(t) {
		t.Run(tc.name, func(t *testing.T) {
			st := tc.store
			at := int64(1700000060)
			a := quiz.Attempt{
				ID: "a1", QuizID: "quiz1", StudentID: "s1",
				Status: quiz.StatusSubmitted, Score: 50,
				StartedAt: 1700000000, SubmittedAt: &at,
				Answers: []quiz.Answer{
					{QuestionID: "q1", Value: "4", Correct: true, Confidence: 3},
					{QuestionID: "q2", Value: "", Correct: false, Confidence: 3},
				},
			}
			if err := st.SaveAttempt(ctx, a); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := st.GetAttempt(ctx, "a1")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Score != 50 || len(got.Answers) != 2 || got.SubmittedAt == nil {
				t.Fatalf("round trip mismatch: %+v", got)
			}

			list, err := st.ListAttempts(ctx, quiz.AttemptListOpts{StudentID: "s1", Status: quiz.StatusSubmitted})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(list) != 1 {
				t.Fatalf("expected 1 attempt, got %d", len(list))
			}
			if _, err := st.GetAttempt(ctx, "missing"); err != quiz.ErrAttemptNotFound {
				t.Fatalf("expected ErrAttemptNotFound, got %v", err)
			}
		})
	}
}
