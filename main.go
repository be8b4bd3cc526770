package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/getwebfast/site-backend/api"
	"github.com/getwebfast/site-backend/auth"
	"github.com/getwebfast/site-backend/cms"
	"github.com/getwebfast/site-backend/config"
	"github.com/getwebfast/site-backend/database"
	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/models"
	"github.com/getwebfast/site-backend/services"
	"github.com/getwebfast/site-backend/site"
	"github.com/getwebfast/site-backend/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	ctx := context.Background()
	c, err := config.LoadSSM(ctx, config.New())
	if err != nil {
		fmt.Printf("Error loading parameters from SSM: %v\n", err)
		os.Exit(1)
	}

	setupLogging(c)
	log.Info().Msg("Initializing app...")

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Column report failed")
		}
		return
	}

	if config.GetString(c, "SUPABASE_URL", "") == "" || config.GetString(c, "SUPABASE_KEY", "") == "" {
		log.Warn().Msg("SUPABASE_URL or SUPABASE_KEY is not set; hosted storage URLs may not resolve")
	}

	bucket, localUploads, err := newBucket(ctx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring image storage")
	}

	provider, err := auth.New(ctx, c, currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring authentication")
	}

	content := cms.New(currentDB, bucket, provider)
	deps := api.Dependencies{
		Database:     currentDB,
		Content:      content,
		Landing:      site.NewLoader(content),
		Inquiries:    services.NewInquiryService(currentDB, services.NewNotifierFromConfig(c), c),
		LocalUploads: localUploads,
	}

	server, err := api.NewServer(c, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	if local, ok := provider.(*auth.LocalProvider); ok {
		go purgeExpiredSessions(purgeCtx, local, time.Hour)
	}

	// Listen for interrupt signals to gracefully shutdown the server
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	run(server, interrupt, 30*time.Second)
}

// run serves until the server fails or interrupt fires, then shuts down
// gracefully and returns the reason.
func run(server api.Server, interrupt <-chan os.Signal, timeout time.Duration) error {
	// Buffered so the server can still report ErrServerClosed after shutdown.
	errChannel := make(chan error, 2)

	go server.Start(errChannel)
	go listenToInterrupt(interrupt, errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(timeout)
	return fatalErr
}

// setupLogging configures the global logger from LOG_LEVEL and LOG_FORMAT.
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(c, "LOG_FORMAT", "json") == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// newBucket builds the image store named by STORAGE_DRIVER. The local
// bucket is also returned on its own so the API can serve its files.
func newBucket(ctx context.Context, c map[string]string) (storage.Bucket, *storage.LocalBucket, error) {
	name := config.GetString(c, "STORAGE_BUCKET", storage.DefaultBucket)

	switch driver := strings.ToLower(config.GetString(c, "STORAGE_DRIVER", "local")); driver {
	case "s3":
		publicBase := config.GetString(c, "STORAGE_PUBLIC_BASE_URL", "")
		if publicBase == "" {
			supabaseURL := config.GetString(c, "SUPABASE_URL", "")
			if supabaseURL == "" {
				return nil, nil, errs.NewEnvironmentVariableError("SUPABASE_URL")
			}
			publicBase = storage.SupabasePublicBase(supabaseURL)
		}
		bucket, err := storage.NewS3Bucket(ctx, storage.S3Options{
			Bucket:          name,
			Endpoint:        config.GetString(c, "S3_ENDPOINT", ""),
			Region:          config.GetString(c, "S3_REGION", "us-east-1"),
			AccessKeyID:     config.GetString(c, "S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: config.GetString(c, "S3_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   publicBase,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("bucket", name).Str("publicBase", publicBase).Msg("Storing images in S3")
		return bucket, nil, nil
	case "local":
		publicBase := config.GetString(c, "STORAGE_PUBLIC_BASE_URL", "http://localhost:"+config.GetString(c, "PORT", "8080"))
		bucket, err := storage.NewLocalBucket(config.GetString(c, "LOCAL_UPLOAD_DIR", "uploads"), name, publicBase)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("dir", bucket.Dir()).Str("publicBase", publicBase).Msg("Storing images on disk")
		return bucket, bucket, nil
	default:
		return nil, nil, errs.NewConfigInvalidError("STORAGE_DRIVER", fmt.Sprintf("unsupported driver %q", driver))
	}
}

func purgeExpiredSessions(ctx context.Context, provider *auth.LocalProvider, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := provider.PurgeExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to purge expired sessions")
			}
		}
	}
}

// listenToInterrupt waits for a signal and then sends it as an error to the error channel.
func listenToInterrupt(interrupt <-chan os.Signal, errChannel chan<- error) {
	errChannel <- fmt.Errorf("%s", <-interrupt)
}
