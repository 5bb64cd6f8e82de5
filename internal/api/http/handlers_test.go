package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge-portal/internal/attempt"
	authmw "github.com/quizforge/quizforge-portal/internal/auth/middleware"
	"github.com/quizforge/quizforge-portal/internal/grading"
	"github.com/quizforge/quizforge-portal/internal/quiz"
	"github.com/quizforge/quizforge-portal/internal/rbac"
	"github.com/quizforge/quizforge-portal/internal/report"
)

// as stamps the request context the way JWTMiddleware + AttachRoleFromDB
// would for an authenticated caller.
func as(r *http.Request, sub, role string) *http.Request {
	ctx := authmw.WithSubject(r.Context(), sub)
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewBuffer(b)
}

func seedQuiz(t *testing.T, st quiz.Store) quiz.Quiz {
	t.Helper()
	ctx := context.Background()
	questions := []quiz.Question{
		{ID: "q1", Text: "1+1?", Type: quiz.TypeShortAnswer, AnswerKey: []string{"2"}, Explanation: "basic", TopicID: "t1"},
		{ID: "q2", Text: "sky is blue", Type: quiz.TypeTrueFalse, AnswerKey: []string{"true"}, TopicID: "t1"},
	}
	for _, q := range questions {
		if err := st.PutQuestion(ctx, q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	if err := st.PutTopic(ctx, quiz.Topic{ID: "t1", Name: "Basics"}); err != nil {
		t.Fatalf("seed topic: %v", err)
	}
	q := quiz.Quiz{
		ID: "quiz1", Title: "Warmup", CreatedBy: "teacher1",
		QuestionIDs: []string{"q1", "q2"}, TimeLimitMin: 5,
		Published: true, CreatedAt: 1700000000,
	}
	if err := st.PutQuiz(context.Background(), q); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}
	return q
}

func TestGetQuizStripsAnswerKeysForStudents(t *testing.T) {
	st := quiz.NewMemoryStore()
	seedQuiz(t, st)
	h := GetQuizHandler(st)

	req := httptest.NewRequest("GET", "/quizzes/quiz1", nil)
	req = withURLParam(as(req, "s1", "student"), "quizID", "quiz1")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(resp.Questions))
	}
	for _, q := range resp.Questions {
		if len(q.AnswerKey) != 0 || q.Explanation != "" {
			t.Fatalf("answer key leaked to student: %+v", q)
		}
	}

	// Teachers get the full record.
	req = httptest.NewRequest("GET", "/quizzes/quiz1", nil)
	req = withURLParam(as(req, "teacher1", "teacher"), "quizID", "quiz1")
	rec = httptest.NewRecorder()
	h(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Questions[0].AnswerKey) == 0 {
		t.Fatalf("teacher should see answer keys")
	}
}

func TestStudentCannotFetchDraftQuiz(t *testing.T) {
	st := quiz.NewMemoryStore()
	q := seedQuiz(t, st)
	q.Published = false
	_ = st.PutQuiz(context.Background(), q)

	req := httptest.NewRequest("GET", "/quizzes/quiz1", nil)
	req = withURLParam(as(req, "s1", "student"), "quizID", "quiz1")
	rec := httptest.NewRecorder()
	GetQuizHandler(st)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("draft must 404 for students, got %d", rec.Code)
	}
}

func TestPublishRequiresQuestions(t *testing.T) {
	st := quiz.NewMemoryStore()
	_ = st.PutQuiz(context.Background(), quiz.Quiz{
		ID: "empty", Title: "Empty", CreatedBy: "teacher1", TimeLimitMin: 5,
	})
	req := httptest.NewRequest("POST", "/quizzes/empty/publish", nil)
	req = withURLParam(as(req, "teacher1", "teacher"), "quizID", "empty")
	rec := httptest.NewRecorder()
	PublishQuizHandler(st)(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for empty quiz, got %d", rec.Code)
	}
}

func TestAttemptFlowThroughHandlers(t *testing.T) {
	st := quiz.NewMemoryStore()
	seedQuiz(t, st)
	reports := report.NewMemoryStore()
	gen := report.NewGenerator(st, st, reports, nil)

	var delivered []quiz.Attempt
	reg := attempt.NewRegistry(func(ctx context.Context, a quiz.Attempt) {
		delivered = append(delivered, a)
		_ = st.SaveAttempt(ctx, a)
		_, _ = gen.Generate(ctx, a)
	})
	grader := grading.NewDefaultGrader()

	// Start.
	req := httptest.NewRequest("POST", "/attempts", jsonBody(t, map[string]string{"quiz_id": "quiz1"}))
	rec := httptest.NewRecorder()
	StartAttemptHandler(st, reg, grader, nil)(rec, as(req, "s1", "student"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", rec.Code, rec.Body.String())
	}
	var view attempt.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.RemainingSec != 300 || view.QuestionCount != 2 {
		t.Fatalf("unexpected start view: %+v", view)
	}
	if view.CurrentQuestion == nil || len(view.CurrentQuestion.AnswerKey) != 0 {
		t.Fatalf("start view must carry the first question, key stripped: %+v", view.CurrentQuestion)
	}

	// Answer one of two correctly.
	req = httptest.NewRequest("POST", "/attempts/"+view.ID+"/answers",
		jsonBody(t, map[string]any{"question_id": "q1", "value": "2"}))
	req = withURLParam(as(req, "s1", "student"), "attemptID", view.ID)
	rec = httptest.NewRecorder()
	SaveAnswerHandler(reg)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save answer: %d %s", rec.Code, rec.Body.String())
	}

	// Another student cannot touch this attempt.
	req = httptest.NewRequest("POST", "/attempts/"+view.ID+"/answers",
		jsonBody(t, map[string]any{"question_id": "q2", "value": "true"}))
	req = withURLParam(as(req, "intruder", "student"), "attemptID", view.ID)
	rec = httptest.NewRecorder()
	SaveAnswerHandler(reg)(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign student should get 403, got %d", rec.Code)
	}

	// Submit: one of two correct, full denominator.
	req = httptest.NewRequest("POST", "/attempts/"+view.ID+"/submit", nil)
	req = withURLParam(as(req, "s1", "student"), "attemptID", view.ID)
	rec = httptest.NewRecorder()
	SubmitAttemptHandler(reg)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	var scored quiz.Attempt
	if err := json.Unmarshal(rec.Body.Bytes(), &scored); err != nil {
		t.Fatalf("decode attempt: %v", err)
	}
	if scored.Score != 50 {
		t.Fatalf("expected score 50, got %v", scored.Score)
	}
	if len(delivered) != 1 {
		t.Fatalf("submit callback should fire exactly once, got %d", len(delivered))
	}

	// Second submit conflicts: the machine is gone.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/attempts/"+view.ID+"/submit", nil)
	req = withURLParam(as(req, "s1", "student"), "attemptID", view.ID)
	SubmitAttemptHandler(reg)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("resubmit should 404 once evicted, got %d", rec.Code)
	}

	// The persisted record is served after eviction.
	req = httptest.NewRequest("GET", "/attempts/"+view.ID, nil)
	req = withURLParam(as(req, "s1", "student"), "attemptID", view.ID)
	rec = httptest.NewRecorder()
	GetAttemptHandler(st, reg)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get after submit: %d", rec.Code)
	}

	// And a report exists for the student.
	list, err := reports.ListReports(context.Background(), report.ListOpts{StudentID: "s1"})
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one report, got %v %v", list, err)
	}
}

func TestListAttemptsPinsStudentsToOwn(t *testing.T) {
	st := quiz.NewMemoryStore()
	_ = st.SaveAttempt(context.Background(), quiz.Attempt{ID: "a1", QuizID: "q", StudentID: "s1", Status: quiz.StatusSubmitted})
	_ = st.SaveAttempt(context.Background(), quiz.Attempt{ID: "a2", QuizID: "q", StudentID: "s2", Status: quiz.StatusSubmitted})

	req := httptest.NewRequest("GET", "/attempts?student_id=s2", nil)
	rec := httptest.NewRecorder()
	ListAttemptsHandler(st)(rec, as(req, "s1", "student"))
	var list []quiz.Attempt
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].StudentID != "s1" {
		t.Fatalf("student filter override failed: %+v", list)
	}
}
