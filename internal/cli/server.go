package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"lms-quiz-service/internal/app"
	"lms-quiz-service/internal/config"
	"lms-quiz-service/internal/domain"
	"lms-quiz-service/internal/infra/gemini"
	"lms-quiz-service/internal/infra/memory"
	pgstore "lms-quiz-service/internal/infra/postgres"
	redisinfra "lms-quiz-service/internal/infra/redis"
	transport "lms-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var (
		quizStore   app.QuizStore
		subStore    app.SubmissionStore
		courses     app.CourseDirectory
		streaks     app.StreakRecorder
		quizReader  app.QuizReader
		invalidator app.QuizCacheInvalidator
	)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		quizStore = pgstore.NewQuizStore(pool)
		subStore = pgstore.NewSubmissionStore(pool)
		courses = pgstore.NewCourseDirectory(pool)
	} else {
		log.Printf("postgres not configured, using in-memory stores with sample data")
		quizStore = memory.NewSeededQuizStore(sampleQuiz())
		subStore = memory.NewSubmissionStore()
		courses = memory.NewCourseDirectory(sampleCourses())
	}

	quizReader = quizStore
	if redisClient != nil {
		cacheTTL := config.Duration(cfg.Quiz.CacheTTL, 10*time.Minute)
		cache := redisinfra.NewQuizCache(redisClient, quizStore, cacheTTL)
		quizReader = cache
		invalidator = cache
		streaks = redisinfra.NewStreakRecorder(redisClient)
	} else {
		streaks = memory.NewStreakLog()
	}

	policy := app.NewPolicy()
	authoring := app.NewAuthoringService(quizStore, courses, invalidator)
	submissions := app.NewSubmissionService(quizReader, subStore, streaks)
	generator := app.NewQuestionGenerator(gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Endpoint))

	grace := config.Duration(cfg.Quiz.SessionGrace, 30*time.Second)
	api := transport.NewAPI(authoring, submissions, generator, policy)
	attemptWS := transport.NewAttemptWSHandler(quizReader, submissions, policy, grace)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	api.Register(mux)
	mux.HandleFunc("/ws/attempt", attemptWS.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func sampleCourses() map[string]domain.Course {
	return map[string]domain.Course{
		"course-1": {ID: "course-1", Title: "Intro to Go"},
	}
}

// sampleQuiz seeds dev mode so the service is usable without a database.
func sampleQuiz() domain.Quiz {
	now := time.Now()
	return domain.Quiz{
		ID:          "quiz-1",
		CourseID:    "course-1",
		Title:       "Go basics",
		Description: "Warm-up questions",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Prompt:        "Which keyword declares a variable with inferred type?",
				Options:       []string{"var", ":=", "let", "def"},
				CorrectOption: 1,
				Timeout:       30,
			},
			{
				ID:            "q2",
				Prompt:        "What does a nil map lookup return?",
				Options:       []string{"panic", "zero value", "error", "nil pointer"},
				CorrectOption: 1,
				Timeout:       30,
			},
		},
		CreatedBy: "system",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
