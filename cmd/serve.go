package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vesselkit/seachest/internal/audit"
	"github.com/vesselkit/seachest/internal/chat"
	"github.com/vesselkit/seachest/internal/crew"
	"github.com/vesselkit/seachest/internal/db"
	"github.com/vesselkit/seachest/internal/llm"
	"github.com/vesselkit/seachest/internal/offline"
	"github.com/vesselkit/seachest/internal/photoqueue"
	"github.com/vesselkit/seachest/internal/server"
	"github.com/vesselkit/seachest/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the seachest server",
	Long:  `Starts the seachest HTTP server: the data API, crew and history exports, the photo intake queue, the medical assistant chat, and offline-mode management.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Port = servePort
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		data, err := store.New(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("opening data store: %w", err)
		}

		dbPath := filepath.Join(cfg.DataDir, "seachest.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		recorder := audit.NewRecorder(database, logger)

		// The AI provider is optional: without it the data API, exports
		// and backups still work, only chat and photo extraction refuse.
		var provider llm.Provider
		provider, err = createProviderFromConfig(cfg)
		if err != nil {
			warn("AI provider unavailable: %v", err)
			warn("chat and photo extraction are disabled")
			provider = nil
		}

		queueStore, err := photoqueue.NewStore(database)
		if err != nil {
			return fmt.Errorf("opening photo queue: %w", err)
		}
		queue, err := photoqueue.NewService(queueStore, data, provider, cfg.VisionModel, cfg.DataDir, recorder, logger)
		if err != nil {
			return fmt.Errorf("creating photo queue service: %w", err)
		}

		srv := server.New(server.Deps{
			Config:      cfg,
			DB:          database,
			Store:       data,
			Credentials: crew.NewCredentialStore(cfg.DataDir),
			Recorder:    recorder,
			Chat:        chat.NewService(chat.NewStore(database), data, provider, logger),
			Queue:       queue,
			Checker:     offline.NewChecker(cfg.OllamaHost, cfg.OllamaModel),
			Logger:      logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down")
			srv.Shutdown(context.Background())
		}()

		logger.Info("starting seachest",
			zap.String("version", Version),
			zap.Int("port", cfg.Port),
			zap.String("data_dir", cfg.DataDir),
			zap.String("db", dbPath),
		)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override the configured port")
	rootCmd.AddCommand(serveCmd)
}
