package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/worker"
)

var workerPoolSize int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume match requests from RabbitMQ",
	Long: `Start a pool of consumers on the match request queue. Each request's resume
is read inline or downloaded from the S3 bucket, matched against the request's
jobs and stored; status updates go to the update exchange under
"request.<id>".`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().IntVarP(&workerPoolSize, "workers", "w", 0, "Number of consumers (default from config)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("rabbitmq_url (or RABBITMQ_URL) is required")
	}
	if workerPoolSize > 0 {
		cfg.WorkerPoolSize = workerPoolSize
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ext, err := buildExtractor(cfg, false)
	if err != nil {
		return err
	}
	defer closeExtractor(ext)

	processor := &worker.Processor{Extractor: ext, Concurrency: cfg.Concurrency}

	if cfg.S3Bucket != "" {
		objects, err := worker.NewS3Store(ctx, worker.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return err
		}
		processor.Objects = objects
	} else {
		log.Printf("Warning: s3_bucket not set; only requests with inline resume_text can be processed")
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		processor.Store = database
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	publisher, err := worker.NewAMQPPublisher(conn, cfg.UpdateExchange)
	if err != nil {
		return err
	}
	processor.Publisher = publisher

	pool := &worker.Pool{
		Conn:    conn,
		Queue:   cfg.RequestQueue,
		Size:    cfg.WorkerPoolSize,
		Handler: processor,
	}
	err = pool.Run(ctx)
	if ctx.Err() != nil {
		log.Println("Worker stopped")
		return nil
	}
	return err
}
