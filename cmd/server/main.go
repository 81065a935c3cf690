package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wordrealm/internal/config"
	"wordrealm/internal/database"
	"wordrealm/internal/dictionary"
	"wordrealm/internal/handlers"
	"wordrealm/internal/repository"
	"wordrealm/internal/scheduler"
	"wordrealm/internal/security"
	"wordrealm/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	dict, err := dictionary.Load(cfg.WordListPath, cfg.PlayableListPath)
	if err != nil {
		log.Fatalf("Failed to load word lists: %v", err)
	}
	log.Printf("Dictionary loaded: %d playable words", dict.PlayableCount())

	// Initialize services
	userRepo := repository.NewUserRepository(db)
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(userRepo, tokens)
	accoladeService := service.NewAccoladeService()
	campaignService := service.NewCampaignService(db, dict)
	guessService := service.NewGuessService(db, dict, accoladeService)
	itemService := service.NewItemService(db, dict, accoladeService)
	rewardService := service.NewRewardService(db, itemService)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.EmailFrom, cfg.EmailName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	lifecycleService := service.NewLifecycleService(db, dict, accoladeService, emailService)

	// Initialize handlers
	loginLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, loginLimiter)
	authHandler := handlers.NewAuthHandler(authService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	playHandler := handlers.NewPlayHandler(db, guessService, campaignService)
	itemHandler := handlers.NewItemHandler(itemService, rewardService)
	adminHandler := handlers.NewAdminHandler(db, campaignService, lifecycleService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /api/hall-of-fame", campaignHandler.HallOfFame)
	mux.HandleFunc("GET /api/items", itemHandler.Catalog)

	// Account routes
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(authHandler.Profile))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(authHandler.UpdateProfile))

	// Campaign routes
	mux.HandleFunc("POST /api/campaigns", middleware.RequireAuth(campaignHandler.Create))
	mux.HandleFunc("POST /api/campaigns/join", middleware.RequireAuth(campaignHandler.Join))
	mux.HandleFunc("POST /api/campaigns/{id}/join", middleware.RequireAuth(campaignHandler.JoinByID))
	mux.HandleFunc("GET /api/campaigns", middleware.RequireAuth(campaignHandler.List))
	mux.HandleFunc("GET /api/campaigns/{id}", middleware.RequireAuth(campaignHandler.Get))
	mux.HandleFunc("GET /api/campaigns/{id}/leaderboard", middleware.RequireAuth(campaignHandler.Leaderboard))
	mux.HandleFunc("PUT /api/campaigns/{id}/member", middleware.RequireAuth(campaignHandler.UpdateMember))
	mux.HandleFunc("POST /api/campaigns/{id}/kick/{userId}", middleware.RequireAuth(campaignHandler.Kick))
	mux.HandleFunc("DELETE /api/campaigns/{id}", middleware.RequireAuth(campaignHandler.Delete))

	// Play routes
	mux.HandleFunc("POST /api/campaigns/{id}/guess", middleware.RequireAuth(playHandler.SubmitGuess))
	mux.HandleFunc("GET /api/campaigns/{id}/progress", middleware.RequireAuth(playHandler.Progress))
	mux.HandleFunc("POST /api/campaigns/{id}/double-down", middleware.RequireAuth(playHandler.ActivateDoubleDown))
	mux.HandleFunc("GET /api/campaigns/{id}/streak", middleware.RequireAuth(playHandler.Streak))
	mux.HandleFunc("GET /api/campaigns/{id}/coins", middleware.RequireAuth(playHandler.Coins))
	mux.HandleFunc("GET /api/campaigns/{id}/stats", middleware.RequireAuth(playHandler.Stats))
	mux.HandleFunc("GET /api/campaigns/{id}/result", middleware.RequireAuth(playHandler.DailyResult))
	mux.HandleFunc("GET /api/campaigns/{id}/accolades", middleware.RequireAuth(playHandler.Accolades))

	// Item and reward routes
	mux.HandleFunc("GET /api/campaigns/{id}/items", middleware.RequireAuth(itemHandler.Inventory))
	mux.HandleFunc("POST /api/campaigns/{id}/items/use", middleware.RequireAuth(itemHandler.UseItem))
	mux.HandleFunc("GET /api/campaigns/{id}/effects", middleware.RequireAuth(itemHandler.Effects))
	mux.HandleFunc("GET /api/campaigns/{id}/reward", middleware.RequireAuth(itemHandler.PendingReward))
	mux.HandleFunc("POST /api/campaigns/{id}/reward", middleware.RequireAuth(itemHandler.ChooseRecipients))

	// Admin routes
	mux.HandleFunc("GET /api/admin/campaigns/{id}/word/{day}", middleware.RequireAdmin(adminHandler.RevealWord))
	mux.HandleFunc("GET /api/admin/campaigns/{id}/words", middleware.RequireAdmin(adminHandler.WordSchedule))
	mux.HandleFunc("POST /api/admin/reset-expired", middleware.RequireAdmin(adminHandler.ResetExpired))
	mux.HandleFunc("GET /api/admin/words/{word}", middleware.RequireAdmin(adminHandler.WordStats))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start nightly campaign rollover
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	go scheduler.New(lifecycleService).Run(schedCtx)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
