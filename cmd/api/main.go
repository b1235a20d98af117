package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hireflow/resume-screener/internal/config"
	"hireflow/resume-screener/internal/handlers"
	"hireflow/resume-screener/internal/repositories"
	"hireflow/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	evaluationRepo := repositories.NewEvaluationRepository(db)
	jdRepo := repositories.NewJobDescriptionRepository(db)
	historyRepo := repositories.NewStageHistoryRepository(db)
	commRepo := repositories.NewCommunicationLogRepository(db)
	txRunner := repositories.NewPoolResetRunner(db, cfg.Database.MaxIdleConns)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractor := services.NewTextExtractor()

	resolverService := services.NewResolverService(txRunner, candidateRepo, services.NormalizeName)
	recorderService := services.NewRecorderService(txRunner, resolverService, candidateRepo, evaluationRepo, jdRepo)
	stageTracker := services.NewStageTrackerService(txRunner, candidateRepo, evaluationRepo, historyRepo)
	jdService := services.NewJobDescriptionService(txRunner, jdRepo, services.NormalizeName)
	log.Println("✅ Services initialized successfully")

	// Initialize outbound transports and notifier
	mailer := services.NewSMTPMailer(
		cfg.Mail.SMTPHost,
		cfg.Mail.SMTPPort,
		cfg.Mail.SMTPUsername,
		cfg.Mail.SMTPPassword,
		cfg.Mail.FromAddress,
	)
	whatsapp := services.NewWhatsAppSender(
		cfg.WhatsApp.BaseURL,
		cfg.WhatsApp.AccessToken,
		cfg.WhatsApp.PhoneNumberID,
	)

	notifierService := services.NewNotifierService(
		txRunner,
		candidateRepo,
		evaluationRepo,
		commRepo,
		mailer,
		whatsapp,
		cfg.Worker.Concurrency,
	)
	notifierService.Start(context.Background())
	log.Println("✅ Notifier started successfully")

	// Profile similarity search is optional: it needs Gemini + Qdrant
	var indexer services.ProfileIndexer
	if cfg.Gemini.APIKey != "" {
		geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}

		qdrantService, err := services.NewQdrantService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantService.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}

		indexer = services.NewProfileIndexer(geminiService, qdrantService)
		log.Println("✅ Profile similarity search enabled")
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, profile similarity search disabled")
	}

	// Initialize handlers
	candidateHandler := handlers.NewCandidateHandler(resolverService, candidateRepo, evaluationRepo, indexer)
	evaluationHandler := handlers.NewEvaluationHandler(recorderService, notifierService, evaluationRepo, commRepo, indexer)
	stageHandler := handlers.NewStageHandler(stageTracker)
	jdHandler := handlers.NewJobDescriptionHandler(jdService)
	resumeHandler := handlers.NewResumeHandler(storageService, extractor, cfg.Storage.MaxFileSize)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Candidates
	api.Post("/candidates/find-or-create", candidateHandler.HandleFindOrCreate)
	api.Get("/candidates", candidateHandler.HandleList)
	api.Get("/candidates/:id", candidateHandler.HandleGet)
	api.Delete("/candidates/:id", candidateHandler.HandleDelete)
	api.Get("/candidates/:id/evaluations", candidateHandler.HandleListEvaluations)
	api.Get("/candidates/:id/similar", candidateHandler.HandleSimilar)
	api.Get("/candidates/:id/stage", stageHandler.HandleGetStage)
	api.Put("/candidates/:id/stage", stageHandler.HandleSetStage)
	api.Get("/candidates/:id/stage/history", stageHandler.HandleGetHistory)

	// Evaluations
	api.Post("/evaluations", evaluationHandler.HandleSubmit)
	api.Get("/evaluations/:id", evaluationHandler.HandleGet)
	api.Post("/evaluations/:id/notifications", evaluationHandler.HandleNotify)
	api.Get("/evaluations/:id/communications", evaluationHandler.HandleListCommunications)

	// Job descriptions
	api.Post("/job-descriptions", jdHandler.HandleFindOrCreate)
	api.Get("/job-descriptions", jdHandler.HandleList)
	api.Get("/job-descriptions/:id", jdHandler.HandleGet)
	api.Delete("/job-descriptions/:id", jdHandler.HandleDelete)

	// Resumes
	api.Post("/resumes", resumeHandler.HandleUpload)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/candidates/find-or-create",
				"POST /api/v1/evaluations",
				"PUT /api/v1/candidates/:id/stage",
				"GET /api/v1/candidates/:id/stage/history",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		notifierService.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}
