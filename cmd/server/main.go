// Command server runs the Big Two game server: HTTP room API, websocket
// fan-out and the in-process event backbone.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bigtwo/internal/app"
	"bigtwo/internal/auth"
	"bigtwo/internal/bot"
	"bigtwo/internal/config"
	"bigtwo/internal/event"
	"bigtwo/internal/game"
	"bigtwo/internal/ports/ws"
	"bigtwo/internal/room"
	"bigtwo/internal/stats"
)

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:           "bigtwo",
		Short:         "Big Two card game server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := event.NewBus(log)
	disp, err := event.NewDispatcher(bus, event.DispatcherConfig{
		Timeout:     cfg.Event.HandlerTimeout,
		MaxRetries:  cfg.Event.MaxRetries,
		BackoffBase: cfg.Event.BackoffBase,
		QueueSize:   cfg.Event.QueueSize,
		PoolSize:    cfg.Event.PoolSize,
	}, log)
	if err != nil {
		return err
	}
	defer disp.Close()

	rooms := room.NewManager(log)
	games := game.NewStore()
	bots := bot.NewRegistry()
	tracker := stats.NewTracker(bus, log)
	svc := app.NewService(rooms, games, bots, tracker, bus, disp, log)

	hub := ws.NewHub(log)
	disp.Register(app.NewFlow(svc))
	disp.Register(bot.NewTrigger(bots, games, bus, bot.TriggerConfig{
		ThinkMin:      cfg.Bot.ThinkMin,
		ThinkMax:      cfg.Bot.ThinkMax,
		DecideTimeout: cfg.Bot.DecideTimeout,
	}, log))
	disp.Register(tracker)
	disp.Register(ws.NewNotifier(hub, rooms, log))

	go rooms.RunSweeper(ctx, cfg.Room.SweepInterval, cfg.Room.IdleAfter)

	tokens := auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	handler := ws.NewHandler(svc, hub, tokens, log)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.Routes(engine)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
