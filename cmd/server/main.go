package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/filecabinet/backend/internal/config"
	"github.com/filecabinet/backend/internal/database"
	"github.com/filecabinet/backend/internal/handlers"
	"github.com/filecabinet/backend/internal/middleware"
	"github.com/filecabinet/backend/internal/services"
	"github.com/filecabinet/backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg := config.Load()

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	hierarchyService := services.NewHierarchyService(db)
	contentsService := services.NewContentsService(db, cfg.DB.QueryTimeout)
	foldersService := services.NewFoldersService(db, hierarchyService, cfg.DB.QueryTimeout)
	filesService := services.NewFilesService(db, hierarchyService, cfg.DB.QueryTimeout)

	foldersHandler := handlers.NewFoldersHandler(foldersService, contentsService)
	filesHandler := handlers.NewFilesHandler(filesService)

	userContext := middleware.NewUserContext(db)

	app := fiber.New(fiber.Config{BodyLimit: 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.FrontendURL))
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	folderRoutes := api.Group("/folders", userContext.WithDefaultUser)
	folderRoutes.Post("/", foldersHandler.Create)
	folderRoutes.Get("/", foldersHandler.ListContents)
	folderRoutes.Get("/:id/path", foldersHandler.Path)
	folderRoutes.Get("/:id", foldersHandler.ListContents)
	folderRoutes.Delete("/:id", foldersHandler.Delete)

	fileRoutes := api.Group("/files", userContext.WithDefaultUser)
	fileRoutes.Post("/", filesHandler.Create)
	fileRoutes.Get("/:id", filesHandler.Get)
	fileRoutes.Delete("/:id", filesHandler.Delete)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
