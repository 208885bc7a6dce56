// main.go
package main

import (
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"go-iron-flow/controllers"
	"go-iron-flow/database"
	"go-iron-flow/logger"
	"go-iron-flow/middleware"
	"go-iron-flow/services"
	"go-iron-flow/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn.Println("No .env file found, reading environment variables directly")
	}

	env := os.Getenv("ENV")
	logger.SetLogLevel(env)
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// storage
	database.Connect()
	database.MigrateTables()

	// service layer
	recordsService := services.NewRecordsService(database.DB)
	tournamentService := services.NewTournamentService(database.DB, recordsService)
	scoringService := services.NewScoringService(database.DB)
	scoringService.Subscribe(websocket.NewScoreboardNotifier())
	controllers.SetServices(tournamentService, scoringService, recordsService)

	router := gin.Default()

	// session store
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "iron-flow-dev-secret"
		logger.Warn.Println("SESSION_SECRET not set, using development default")
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   env == "production",
	})
	router.Use(sessions.Sessions("ironflow_session", store))

	// judge-terminal liveness
	heartbeats := NewHeartbeatManager()
	heartbeats.CleanupInactiveTerminals(30 * time.Minute)

	// public routes
	router.GET("/health", controllers.Health)
	router.POST("/login", controllers.PerformLogin)
	router.GET("/logout", controllers.Logout)
	router.GET("/heartbeat", heartbeats.HeartbeatHandler)
	router.GET("/records", controllers.ListRecords)
	router.GET("/tournaments", controllers.ListTournaments)
	router.GET("/tournaments/:id", controllers.GetTournament)
	router.GET("/tournaments/:id/rankings", controllers.GetRankings)
	router.GET("/tournaments/:id/rankings/categories", controllers.GetCategoryRankings)
	router.GET("/tournaments/:id/rankings/divisions", controllers.GetDivisionRankings)
	router.GET("/tournaments/:id/analytics", controllers.GetAnalytics)

	// live scoreboard push
	router.GET("/scoreboard-updates", func(c *gin.Context) {
		websocket.ServeWs(c.Writer, c.Request)
	})

	// administrative routes
	admin := router.Group("/", middleware.AuthRequired, middleware.AdminRequired)
	{
		admin.POST("/tournaments", controllers.CreateTournament)
		admin.PUT("/tournaments/:id/categories", controllers.SetCategories)
		admin.PUT("/tournaments/:id/formula", controllers.SetFormula)
		admin.POST("/tournaments/:id/transition", controllers.TransitionPhase)
		admin.POST("/tournaments/:id/participants", controllers.RegisterParticipant)
		admin.PUT("/tournaments/:id/participants/:participantId/bodyweight", controllers.UpdateBodyweight)
		admin.POST("/tournaments/:id/participants/:participantId/withdraw", controllers.WithdrawParticipant)
		admin.POST("/tournaments/:id/participants/:participantId/attempts", controllers.DeclareWeight)
		admin.POST("/tournaments/:id/participants/:participantId/attempts/judge", controllers.JudgeAttempt)
		admin.POST("/tournaments/:id/participants/:participantId/attempts/supersede", controllers.SupersedeAttempt)
	}

	// start the scoreboard fan-out loop
	go websocket.HandleMessages()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info.Printf("Starting server on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logger.Error.Fatalf("Failed to run server: %v", err)
	}
}
