package http

import (
	"time"

	"crash_webapp/internal/config"
	"crash_webapp/internal/http/handlers"
	"crash_webapp/internal/http/middleware"
	"crash_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, fairness *service.Fairness, version string) {
	h := handlers.NewHandler(db, fairness, handlers.HandlerConfig{
		MinBet: cfg.MinBet,
		MaxBet: cfg.MaxBet,
	})
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	// Auth
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/recover", h.Recover)
	api.POST("/auth/reset", h.ResetPassword)

	// User profile
	api.GET("/me", middleware.JWT(), h.Me)
	api.GET("/me/profit", middleware.JWT(), h.MyProfit)
	api.GET("/me/plays", middleware.JWT(), h.MyPlays)
	api.GET("/me/games", middleware.JWT(), h.MyGames)
	api.GET("/me/fundings", middleware.JWT(), h.MyFundings)
	api.GET("/me/giveaways", middleware.JWT(), h.MyGiveaways)
	api.GET("/me/rank", middleware.JWT(), h.MyRank)
	api.GET("/profile/:id", h.Profile)

	// Rounds
	api.GET("/game/current", h.CurrentGame)
	api.GET("/game/recent", h.RecentGames)
	api.GET("/game/stats", h.GameStats)
	api.GET("/game/history", h.GameHistory)
	api.GET("/game/highest", h.HighestGames)
	api.GET("/game/lowest", h.LowestGames)
	api.GET("/game/busiest", h.BusiestGames)
	api.GET("/game/:id", h.Game)
	api.GET("/game/:id/plays", h.GamePlays)
	api.GET("/game/:id/verify", h.VerifyGame)

	// Betting
	api.POST("/play/bet", middleware.JWT(), h.PlaceBet)
	api.POST("/play/cashout", middleware.JWT(), h.CashOut)

	// Leaderboards
	api.GET("/leaderboard", h.Leaderboard)
	api.GET("/top/players", h.TopPlayers)
	api.GET("/top/wins", h.TopWins)
	api.GET("/top/bets", h.BiggestBets)
	api.GET("/top/cashouts", h.HighestCashouts)

	// Fundings
	api.POST("/funding/deposit", middleware.JWT(), h.Deposit)
	api.POST("/funding/withdraw", middleware.JWT(), h.Withdraw)

	// Chat
	api.GET("/chat", h.RecentMessages)
	api.POST("/chat", middleware.JWT(), h.PostMessage)

	// Admin
	admin := api.Group("/admin")
	admin.Use(middleware.JWT())
	{
		admin.POST("/game/start", h.StartRound)
		admin.POST("/game/:id/end", h.EndRound)
		admin.GET("/fundings/pending", h.PendingFundings)
		admin.POST("/fundings/:id/complete", h.CompleteFunding)
		admin.POST("/fundings/:id/reject", h.RejectFunding)
		admin.POST("/giveaways", h.AwardGiveaway)
		admin.GET("/giveaways/:id", h.UserGiveaways)
		admin.DELETE("/chat/:id", h.DeleteMessage)
	}
}
