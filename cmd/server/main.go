package main

import (
	"tinta/internal/config"
	"tinta/internal/db"
	"tinta/internal/handlers"
	"tinta/internal/logger"
	"tinta/internal/middleware"
	"tinta/internal/repository"
	"tinta/internal/services"
	"tinta/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Env vars may come from the system instead of a .env file.
	_ = godotenv.Load()

	log := logger.New()
	cfg := config.Load()

	conn := db.Init(cfg.Server.DatabaseURL, log)

	// Repositories
	commentRepo := repository.NewCommentRepository(conn)
	voteRepo := repository.NewVoteRepository(conn)
	submissionRepo := repository.NewSubmissionRepository(conn)
	postRepo := repository.NewPostRepository(conn)
	agentRepo := repository.NewAgentRepository(conn)
	executionRepo := repository.NewExecutionRepository(conn)
	userRepo := repository.NewUserRepository(conn)
	notificationRepo := repository.NewNotificationRepository(conn)

	// Services
	mailSvc := services.NewMailService(cfg.SMTP, cfg.Server.SiteURL, log)
	notifySvc := services.NewNotifyService(notificationRepo, userRepo, mailSvc, log)
	guardSvc := services.NewGuardService(submissionRepo, log)
	spamSvc := services.NewSpamService(cfg.Spam.Blocklist)
	commentSvc := services.NewCommentService(commentRepo, voteRepo, postRepo, guardSvc, spamSvc, notifySvc, log)
	llmClient := services.NewLLMClient(cfg.LLM, log)
	agentSvc := services.NewAgentService(agentRepo, executionRepo, llmClient, cfg.LLM.ExecTimeout, log)

	cache, err := utils.NewCache(256)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create cache")
	}

	// Initialize Gin
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.SiteURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Setup Sessions
	store := cookie.NewStore([]byte(cfg.Server.SessionSecret))
	r.Use(sessions.Sessions("tinta_session", store))
	r.Use(middleware.LoadUser(userRepo))

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo)
	postHandler := handlers.NewPostHandler(postRepo, commentRepo, llmClient, cache)
	commentHandler := handlers.NewCommentHandler(commentSvc, cache)
	agentHandler := handlers.NewAgentHandler(agentSvc, llmClient)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	api := r.Group("/api")

	// Public Routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", authHandler.Me)

	api.GET("/posts", postHandler.List)
	api.GET("/posts/:slug", postHandler.Get)
	api.GET("/posts/id/:id/comments", commentHandler.ListByPost)

	api.POST("/comments", commentHandler.Create)
	api.POST("/comments/:id/vote", commentHandler.Vote)
	api.GET("/comments/:id/vote", commentHandler.GetVote)

	// Protected Routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/notifications", notificationHandler.List)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	// Admin Routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/posts", postHandler.AdminList)
		admin.POST("/posts", postHandler.Create)
		admin.PUT("/posts/:id", postHandler.Update)
		admin.DELETE("/posts/:id", postHandler.Delete)
		admin.POST("/posts/generate-excerpt", postHandler.GenerateExcerpt)

		admin.GET("/comments", commentHandler.Queue)
		admin.POST("/comments/:id/approve", commentHandler.Approve)
		admin.PUT("/comments/:id", commentHandler.Update)
		admin.DELETE("/comments/:id", commentHandler.Delete)

		admin.GET("/agents", agentHandler.List)
		admin.GET("/agents/:id", agentHandler.Get)
		admin.POST("/agents", agentHandler.Create)
		admin.PUT("/agents/:id", agentHandler.Update)
		admin.DELETE("/agents/:id", agentHandler.Delete)
		admin.POST("/agents/:id/execute", agentHandler.Execute)
		admin.GET("/agents/:id/executions", agentHandler.Executions)
		admin.GET("/llm/health", agentHandler.Health)
	}

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
