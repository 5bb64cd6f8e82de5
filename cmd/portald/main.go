package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/quizforge/quizforge-portal/internal/api/http"
	"github.com/quizforge/quizforge-portal/internal/attempt"
	auth "github.com/quizforge/quizforge-portal/internal/auth/middleware"
	"github.com/quizforge/quizforge-portal/internal/config"
	"github.com/quizforge/quizforge-portal/internal/db"
	"github.com/quizforge/quizforge-portal/internal/eventlog"
	"github.com/quizforge/quizforge-portal/internal/genai"
	"github.com/quizforge/quizforge-portal/internal/grading"
	"github.com/quizforge/quizforge-portal/internal/quiz"
	"github.com/quizforge/quizforge-portal/internal/rbac"
	"github.com/quizforge/quizforge-portal/internal/report"
	"github.com/quizforge/quizforge-portal/internal/storage"
)

func main() {
	_ = godotenv.Load() // best-effort; env vars win
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh)
	reports := report.NewSQLStore(dbh)
	events := eventlog.NewEventRepo(dbh)

	if err := seedAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("admin seed: %v", err)
	}

	// --- Domain services ---
	grader := grading.NewDefaultGrader()
	generator := report.NewGenerator(store, store, reports, time.Now)
	provider := genai.NewTemplateProvider(cfg.GenAIDelay)

	// Every scored attempt, explicit or timed out, lands here exactly
	// once: persist, log, build the report.
	registry := attempt.NewRegistry(func(ctx context.Context, a quiz.Attempt) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		if err := store.SaveAttempt(ctx, a); err != nil {
			log.Printf("save attempt %s: %v", a.ID, err)
			return
		}
		appendEvent(ctx, events, eventlog.TypeAttemptSubmitted, a.ID, a)
		rep, err := generator.Generate(ctx, a)
		if err != nil {
			log.Printf("report for attempt %s: %v", a.ID, err)
			return
		}
		appendEvent(ctx, events, eventlog.TypeReportGenerated, rep.ID, rep)
	})

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.AllowClaimFallback()))
		pr.Route("/assets", func(ar chi.Router) {
			api.MountAssets(ar, bs)
		})
	})

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.AllowClaimFallback()))

		// Authoring (teacher/admin)
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(store))
		pr.With(rbac.Require("quiz:publish")).
			Post("/quizzes/{quizID}/publish", api.PublishQuizHandler(store))
		pr.With(rbac.Require("question:create")).
			Post("/questions", api.CreateQuestionHandler(store))
		pr.With(rbac.Require("question:view")).
			Get("/questions/{questionID}", api.GetQuestionHandler(store))
		pr.With(rbac.Require("question:view")).
			Post("/questions/batch", api.BatchGetQuestionsHandler(store))
		pr.With(rbac.Require("topic:create")).
			Post("/topics", api.CreateTopicHandler(store))
		pr.With(rbac.Require("class:create")).
			Post("/classes", api.CreateClassHandler(store))
		pr.With(rbac.Require("class:view")).
			Get("/classes", api.ListClassesHandler(store))
		pr.With(rbac.Require("class:view")).
			Get("/classes/{classID}", api.GetClassHandler(store))

		// Catalog (both roles)
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(store))
		pr.Get("/topics", api.ListTopicsHandler(store))
		pr.Get("/topics/{topicID}", api.GetTopicHandler(store))

		// Attempt workflow (student)
		pr.With(rbac.Require("attempt:create")).
			Post("/attempts", api.StartAttemptHandler(store, registry, grader, dbh))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/answers", api.SaveAnswerHandler(registry))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/advance", api.AdvanceAttemptHandler(registry))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/submit", api.SubmitAttemptHandler(registry))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", api.GetAttemptHandler(store, registry))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", api.ListAttemptsHandler(store))

		// Reports
		pr.With(rbac.RequireAny("report:view-own", "report:view-all")).
			Get("/reports", api.ListReportsHandler(reports))
		pr.With(rbac.RequireAny("report:view-own", "report:view-all")).
			Get("/reports/{reportID}", api.GetReportHandler(reports))

		// Content generation
		pr.With(rbac.Require("generate:questions")).
			Post("/generate/questions", api.GenerateQuestionsHandler(provider, store))
		pr.With(rbac.Require("generate:recommendations")).
			Post("/generate/recommendations", api.StudyRecommendationsHandler(provider))
		pr.With(rbac.Require("generate:analysis")).
			Post("/generate/analysis", api.AnalyzePerformanceHandler(provider))

		// Users (teacher/admin)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	// Countdown driver for live attempts.
	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go registry.Run(runCtx)

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func appendEvent(ctx context.Context, events *eventlog.EventRepo, typ, key string, payload any) {
	data, _ := json.Marshal(payload)
	if err := events.Append(ctx, eventlog.Event{Type: typ, Key: key, DataJSON: string(data)}); err != nil {
		log.Printf("event %s %s: %v", typ, key, err)
	}
}

// seedAdmin provisions the admin account when ADMIN_PASS_HASH is set and
// the user is missing. Existing rows are left untouched.
func seedAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	if cfg.AdminPassHash == "" {
		return nil
	}
	var one int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, cfg.AdminUser).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, name, class_id, created_at)
		 VALUES ($1,$2,$3,'admin','Administrator','',$4)`,
		cfg.AdminUser, cfg.AdminUser, cfg.AdminPassHash, time.Now().Unix())
	return err
}
