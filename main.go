package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"threadline/database"
	"threadline/database/memstore"
	"threadline/engine"
	"threadline/initializers"
	"threadline/routes"
)

func main() {
	initializers.LoadEnvVariables()
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "threadline",
		Short:         "Threadline social feed backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	})
	cmd.AddCommand(newReconcileCommand())
	return cmd
}

func newReconcileCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Repair reference lists left inconsistent by interrupted mutations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if cfg.StoreBackend == initializers.BackendMemory {
				return errors.New("reconcile needs a persistent store, STORE_BACKEND is memory")
			}
			b, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.close()

			e := engine.New(b.store, b.media, logger)
			report, err := e.Reconcile(cmd.Context(), dryRun)
			if err != nil {
				return fmt.Errorf("reconcile: %w", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report repairs without writing")
	return cmd
}

func setup() (*initializers.Config, *slog.Logger, error) {
	cfg, err := initializers.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

type backend struct {
	store engine.Store
	media engine.MediaStore
	close func()
}

func openBackend(ctx context.Context, cfg *initializers.Config) (*backend, error) {
	if cfg.StoreBackend == initializers.BackendMemory {
		return &backend{
			store: memstore.New(),
			media: memstore.NewMedia(cfg.HostName),
			close: func() {},
		}, nil
	}

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	media, err := database.NewGridFSMedia(db, cfg.HostName)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &backend{
		store: database.NewStore(db),
		media: media,
		close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer b.close()
	logger.Info("store ready", "backend", cfg.StoreBackend)

	e := engine.New(b.store, b.media, logger, engine.WithPageSize(cfg.PageSize))

	gin.SetMode(gin.ReleaseMode)
	router := routes.NewRouter(e, routes.Options{
		SecretKey:      cfg.SecretKey,
		TokenTTL:       cfg.TokenTTL,
		AllowedOrigins: cfg.AllowedOrigins,
	}, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down http server", "error", err)
	}
	return nil
}
