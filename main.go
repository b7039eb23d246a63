package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/picboard/picboard-backend/api"
	"github.com/picboard/picboard-backend/database"
	"github.com/picboard/picboard-backend/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "picboard"),
			getEnv("DB_PASSWORD", ""),
			getEnv("DB_NAME", "picboard"),
			getEnv("DB_PORT", "5432"),
		)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt:    false,
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	// The settings singleton must exist before the first signup request
	if err := currentDB.SettingRepo().Seed(); err != nil {
		fmt.Printf("Error seeding settings: %v\n", err)
		os.Exit(1)
	}

	assets, err := newAssetStore()
	if err != nil {
		fmt.Printf("Error initializing asset store: %v\n", err)
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, assets)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// newAssetStore picks the asset backend from STORAGE_BACKEND: "s3" or the
// local filesystem default.
func newAssetStore() (storage.AssetStore, error) {
	switch getEnv("STORAGE_BACKEND", "local") {
	case "s3":
		return storage.NewS3(context.Background(), storage.S3Config{
			Bucket:       os.Getenv("S3_BUCKET"),
			ImagePrefix:  getEnv("S3_IMAGE_DIR", "images"),
			ThumbPrefix:  getEnv("S3_THUMB_DIR", "thumbs"),
			ImageBaseURL: os.Getenv("IMAGE_URL"),
			ThumbBaseURL: os.Getenv("THUMB_URL"),
		})
	default:
		return storage.NewLocal(
			getEnv("LOCAL_STORAGE_ROOT", "./data/assets"),
			getEnv("LOCAL_STORAGE_URL", "http://localhost:8080/assets"),
		)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// getEnv returns the value of the environment variable key or a fallback value.
func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
