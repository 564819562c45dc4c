package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/recipebox/recipebox-go/internal/config"
	"github.com/recipebox/recipebox-go/internal/handler"
	"github.com/recipebox/recipebox-go/internal/repository"
	"github.com/recipebox/recipebox-go/internal/service"
	"github.com/recipebox/recipebox-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cmd := &cli.Command{
		Name:           "recipebox",
		Usage:          "recipe management API",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP API server",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return serve(ctx)
				},
			},
			{
				Name:  "create-superuser",
				Usage: "create a staff superuser account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "login email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "password (min 5 characters)", Required: true},
				},
				Action: createSuperuser,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	// The database container may still be starting; wait before serving.
	waitCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := repository.WaitForDB(waitCtx, db); err != nil {
		return err
	}

	authService := service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTExpiry)
	tagService := service.NewTagService(repository.NewTagRepository(db))
	ingredientService := service.NewIngredientService(repository.NewIngredientRepository(db))
	recipeService := service.NewRecipeService(
		repository.NewRecipeRepository(db),
		repository.NewTagRepository(db),
		repository.NewIngredientRepository(db),
		storage.NewImageStore(cfg.MediaRoot),
		cfg.MediaBaseURL,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.NewRouter(cfg, authService, recipeService, tagService, ingredientService),
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

func createSuperuser(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := repository.WaitForDB(waitCtx, db); err != nil {
		return err
	}

	authService := service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret, cfg.JWTExpiry)
	user, err := authService.CreateSuperuser(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}

	slog.Info("superuser created", "email", user.Email)
	return nil
}
