package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/database"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	if lvl, err := log.ParseLevel(cfg.LogLevel); err != nil || lvl < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	registerRoutes(r, db, cfg)

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func registerRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	labelRepo := repository.NewLabelRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	boardHandler := handler.NewBoardHandler(boardRepo, userRepo)
	columnHandler := handler.NewColumnHandler(columnRepo, boardRepo)
	labelHandler := handler.NewLabelHandler(labelRepo, boardRepo)
	projectHandler := handler.NewProjectHandler(projectRepo, taskRepo, boardRepo)
	taskHandler := handler.NewTaskHandler(taskRepo, columnRepo, boardRepo)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.DELETE("/users/me", userHandler.DeleteMe)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.PUT("/boards/:id/owner", boardHandler.TransferOwnership)

		// Membership routes
		authorized.GET("/boards/:id/members", boardHandler.GetMembers)
		authorized.POST("/boards/:id/members", boardHandler.AddMember)
		authorized.DELETE("/boards/:id/members/:user_id", boardHandler.RemoveMember)

		// Column routes
		authorized.POST("/columns", columnHandler.Create)
		authorized.GET("/boards/:id/columns", columnHandler.GetAll)
		authorized.POST("/boards/:id/columns/reorder", columnHandler.ReorderColumns)
		authorized.GET("/columns/:id", columnHandler.GetByID)
		authorized.PUT("/columns/:id", columnHandler.Update)
		authorized.DELETE("/columns/:id", columnHandler.Delete)
		authorized.POST("/columns/:id/move", columnHandler.Move)

		// Label routes
		authorized.POST("/labels", labelHandler.Create)
		authorized.GET("/boards/:id/labels", labelHandler.GetByBoardID)
		authorized.GET("/labels/:id", labelHandler.GetByID)
		authorized.PUT("/labels/:id", labelHandler.Update)
		authorized.DELETE("/labels/:id", labelHandler.Delete)
		authorized.GET("/labels/:id/tasks", labelHandler.GetTasksWithLabel)

		// Project routes
		authorized.POST("/projects", projectHandler.Create)
		authorized.GET("/boards/:id/projects", projectHandler.GetByBoardID)
		authorized.GET("/projects/:id", projectHandler.GetByID)
		authorized.PUT("/projects/:id", projectHandler.Update)
		authorized.DELETE("/projects/:id", projectHandler.Delete)
		authorized.POST("/projects/:id/move", projectHandler.Move)
		authorized.PUT("/projects/:id/labels", projectHandler.SetLabels)
		authorized.GET("/projects/:id/tasks", projectHandler.GetTasks)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/columns/:id/tasks", taskHandler.GetByColumnID)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/move", taskHandler.MoveTask)
		authorized.GET("/tasks/:id/children", taskHandler.GetChildren)
		authorized.PUT("/tasks/:id/labels", taskHandler.SetLabels)
		authorized.POST("/tasks/:id/labels/:label_id", taskHandler.AddLabel)
		authorized.DELETE("/tasks/:id/labels/:label_id", taskHandler.RemoveLabel)
		authorized.PUT("/tasks/:id/assignees", taskHandler.SetAssignees)
		authorized.POST("/tasks/:id/assignees", taskHandler.AssignUser)
		authorized.DELETE("/tasks/:id/assignees/:user_id", taskHandler.UnassignUser)
	}
}

// Handler returns the engine wrapped with the CORS policy.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.Config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(s.Engine)
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:         ":" + s.Config.ServerPort,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("✅ Server exited properly")
}
