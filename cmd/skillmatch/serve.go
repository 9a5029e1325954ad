package main

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/cache"
	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/server"
	"github.com/jonathan/skillmatch/internal/server/ratelimit"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for skill extraction,
section segmentation, job normalization and matching. Match results are cached
in Redis when redis_url is set and stored in PostgreSQL when database_url is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, then 8080)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.ServerPort = servePort
	}

	ext, err := buildExtractor(cfg, false)
	if err != nil {
		return err
	}
	defer closeExtractor(ext)

	deps := server.Deps{Extractor: ext}
	ctx := cmd.Context()

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: %v; serving without match cache", err)
		} else {
			defer client.Close()
			deps.Cache = cache.NewRedisMatchCache(client, cfg.CacheTTL())
		}
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: %v; serving without persistence", err)
		} else {
			defer database.Close()
			if serveMigrate {
				if err := database.Migrate(ctx); err != nil {
					return err
				}
			}
			deps.Store = database
		}
	}

	rl := ratelimit.LoadConfig()
	if rl.Enabled && cfg.RateLimit > 0 {
		rl.DefaultLimit = int(cfg.RateLimit * 60)
		rl.DefaultWindow = time.Minute
	}

	srv := server.New(server.Config{
		Port:        cfg.ServerPort,
		Concurrency: cfg.Concurrency,
		RateLimit:   rl,
	}, deps)
	return srv.Start()
}
