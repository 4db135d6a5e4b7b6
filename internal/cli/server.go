package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"guess-the-app/internal/app"
	"guess-the-app/internal/config"
	"guess-the-app/internal/infra/memory"
	redisstore "guess-the-app/internal/infra/redis"
	transport "guess-the-app/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the WebSocket quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	banks := newBankRepository(cfg, b)
	store, err := newPreferenceStore(cfg, b, config.StorageMemory)
	if err != nil {
		return err
	}
	prefs := app.NewPreferences(store, log)
	id := bankID(cfg)
	if _, err := banks.GetBank(ctx, id); err != nil {
		return err
	}

	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	var sessions app.SessionRepository
	if b.redis != nil {
		sessions = redisstore.NewSessionStore(b.redis, sessionTTL)
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
	}

	opts := controllerOptions(cfg, log)
	factory := func(ctx context.Context) (*app.Controller, error) {
		bank, err := banks.GetBank(ctx, id)
		if err != nil {
			return nil, err
		}
		return app.NewController(ctx, bank, prefs, opts...), nil
	}
	wsHandler := transport.NewWSHandler(factory, sessions, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("port", finalPort).Info("starting guess-the-app server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
