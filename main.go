package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"samplemeta/internal"
	"samplemeta/internal/config"
	"samplemeta/internal/container"
	"samplemeta/internal/errors"
	"samplemeta/internal/migration"
	"samplemeta/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and applies the schema
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	log.Printf("Database schema at version %s", migrator.Version())

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(ctx, appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		db.Close()
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.InitWithDatabase(db); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	appContainer.StartJanitor(ctx)

	server := ui.NewServer(ui.Services{
		Experiments: appContainer.Experiments,
		Templates:   appContainer.Templates,
		Imports:     appContainer.Imports,
		Rosters:     appContainer.Rosters,
	}, appConfig.Server.MaxUploadMB)

	log.Printf("🚀 Starting sample metadata server on port %s", appConfig.Server.Port)
	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
