package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipebook/auth"
	"recipebook/handlers"
	"recipebook/images"
	"recipebook/search"
	"recipebook/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Credentials come from GOOGLE_APPLICATION_CREDENTIALS or the metadata
	// server; FIRESTORE_EMULATOR_HOST switches to the emulator.
	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to create Firestore client: %w", err)
	}
	defer client.Close()

	uploader, err := images.NewUploader(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}

	db := store.NewFirestore(client)
	h := handlers.New(handlers.Deps{
		Recipes:  db,
		Users:    db,
		Searcher: search.NewDefault(newMealDB(cfg), db, logger),
		Images:   uploader,
		Tokens:   auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		Log:      logger,
	})

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: h.Router(handlers.RouterOptions{
			CORSOrigins: cfg.CORSOrigins,
			UploadDir:   uploader.Dir(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
