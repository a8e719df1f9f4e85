package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/SahilShaikh-7/careerspark-pplx/internal/handlers"
	"github.com/SahilShaikh-7/careerspark-pplx/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start the HTTP API together with the analysis worker pool.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	worker := services.NewWorker(app.pipeline, app.indexer(), cfg.Worker.Concurrency, cfg.Worker.QueueSize)

	g, gctx := errgroup.WithContext(ctx)
	server := newServer(gctx, app, worker)

	g.Go(func() error {
		worker.Start(gctx)
		<-gctx.Done()
		worker.Stop()
		return nil
	})

	g.Go(func() error {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("🚀 Server starting on %s\n", addr)
		if err := server.Listen(addr); err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("🛑 Shutting down server...")
		return server.ShutdownWithTimeout(30 * time.Second)
	})

	return g.Wait()
}

func newServer(shutdown context.Context, app *application, worker services.Worker) *fiber.App {
	resumeHandler := handlers.NewResumeHandler(shutdown, worker, app.resumes, app.jobIndex, app.publisher, app.cfg.Storage.MaxFileSize)
	profileHandler := handlers.NewProfileHandler(app.profiles)
	jobsHandler := handlers.NewJobsHandler(app.jobIndex)
	log.Println("✅ Handlers initialized")

	server := fiber.New(fiber.Config{
		AppName:      "CareerSpark API",
		ReadTimeout:  30 * time.Second,
		BodyLimit:    int(app.cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.CustomErrorHandler,
	})

	server.Use(recover.New())
	server.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if app.cfg.Storage.Driver == "local" {
		server.Static("/files", app.cfg.Storage.UploadPath)
	}

	api := server.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := handlers.RequireAuth(app.auth)

	api.Post("/resumes", auth, resumeHandler.HandleSubmit)
	api.Get("/resumes", auth, resumeHandler.HandleList)
	api.Get("/resumes/:id", auth, resumeHandler.HandleGet)
	api.Get("/resumes/:id/report", auth, resumeHandler.HandleReport)
	api.Delete("/resumes/:id", auth, resumeHandler.HandleDelete)
	api.Get("/profile", auth, profileHandler.HandleGet)
	api.Put("/profile", auth, profileHandler.HandleUpdate)
	api.Get("/jobs/search", auth, jobsHandler.HandleSearch)

	server.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CareerSpark API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes",
				"GET /api/v1/resumes",
				"GET /api/v1/resumes/:id",
				"GET /api/v1/resumes/:id/report?format=txt|xlsx",
				"DELETE /api/v1/resumes/:id",
				"GET /api/v1/profile",
				"PUT /api/v1/profile",
				"GET /api/v1/jobs/search?q=",
			},
		})
	})

	return server
}
