package server

import (
	"net/http"
	"time"

	"expense-server/cache"
	"expense-server/confs"
	"expense-server/db"
	"expense-server/handlers"
	httpHandler "expense-server/handlers/http"
	"expense-server/repositories"
	"expense-server/services"
	"expense-server/timeutil"
	"expense-server/usecases"
	"expense-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const summaryCacheTTL = time.Minute

type Server struct {
	app      *gin.Engine
	db       db.Database
	cfg      *confs.Config
	prepared bool
}

func NewServer(database db.Database, cfg *confs.Config) *Server {
	return &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
	}
}

func (s *Server) Start() error {
	s.setup()
	return s.app.Run("0.0.0.0:" + s.cfg.Port)
}

// Engine exposes the configured router for tests.
func (s *Server) Engine() *gin.Engine {
	s.setup()
	return s.app
}

func (s *Server) setup() {
	if s.prepared {
		return
	}
	s.prepared = true

	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Welcome and liveness routes
	s.app.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Welcome to Personal Expense Tracker API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"health":   "/health",
				"users":    "/api/users",
				"expenses": "/api/expenses",
				"summary":  "/api/summary/:userId",
				"events":   "/ws",
			},
		})
	})
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "API is running",
			"timestamp": timeutil.NowISO(),
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	expenseRepo := repositories.NewExpensePgRepository(s.db)

	// Event feed
	manager := ws.NewManager()
	dispatcher := services.NewEventDispatcher(manager)
	wsHandler := handlers.NewWSHandler(manager)

	// Summary cache, invalidated by expense writes
	summaryCache := cache.New[usecases.MonthlySummary](summaryCacheTTL)

	// Initialize use cases
	userUseCase := usecases.NewUserUseCase(userRepo, dispatcher, summaryCache)
	expenseUseCase := usecases.NewExpenseUseCase(expenseRepo, userRepo, dispatcher, summaryCache, s.cfg.DefaultPageSize, s.cfg.MaxPageSize)
	summaryUseCase := usecases.NewSummaryUseCase(userRepo, expenseRepo, summaryCache)

	// Initialize handlers
	userHandler := httpHandler.NewUserHandler(userUseCase)
	expenseHandler := httpHandler.NewExpenseHandler(expenseUseCase)
	summaryHandler := httpHandler.NewSummaryHandler(summaryUseCase)

	// Setup API routes
	api := s.app.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.GetAllUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.PATCH("/:id", userHandler.PatchUser)
			users.POST("/:id/change-email", userHandler.ChangeEmail)
			users.GET("/:id/expenses", expenseHandler.GetUserExpenses)
			users.GET("/:id/summary", summaryHandler.GetUserSummary)
		}

		expenses := api.Group("/expenses")
		{
			expenses.POST("", expenseHandler.CreateExpense)
			expenses.GET("/user/:id", expenseHandler.GetUserExpenses) // alternate path
			expenses.PUT("/:id", expenseHandler.UpdateExpense)
			expenses.PATCH("/:id", expenseHandler.PatchExpense)
			expenses.DELETE("/:id", expenseHandler.DeleteExpense)
		}

		api.GET("/summary/:id", summaryHandler.GetUserSummary) // alternate path
	}

	s.app.GET("/ws", wsHandler.HandleEventFeed)

	s.app.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
		})
	})
}
