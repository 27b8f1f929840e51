package main

import (
	"context"
	"os/signal"
	"syscall"

	_ "foodlog/docs"
	"foodlog/internal/config"
	"foodlog/internal/flow"
	"foodlog/internal/handlers"
	"foodlog/internal/logger"
	"foodlog/internal/repository"
	"foodlog/internal/repository/db"
	"foodlog/internal/server"
	"foodlog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/WebSocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "listen port (default 8080)")
	serveCmd.Flags().String("db", "", "sqlite journal path")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("db.path", serveCmd.Flags().Lookup("db"))
	rootCmd.AddCommand(serveCmd)
}

func serve(parent context.Context) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	// init logger
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()
	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.UsesDefaultSigningKey() {
		log.Warnw("default_signing_key_in_use", "hint", "set FOODLOG_SESSION_SIGNING_KEY before leaving debug")
	}

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err, "path", cfg.DB.Path)
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Config{
		SessionTTL: cfg.Session.TTL,
		SigningKey: cfg.Session.SigningKey,
		Timings:    cfg.Flow.Timings(),
		Analyzer:   flow.StaticAnalyzer{},
	}, log)
	apiHandler := handlers.NewHandler(services, log, handlers.WithMaxImageBytes(cfg.Flow.MaxImageBytes))

	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// HTTP server
	g.Go(func() error {
		log.Infow("server_starting", "port", cfg.Port, "db", cfg.DB.Path)
		return srv.Run(cfg.Port, apiHandler.InitRoutes())
	})

	// idle session reaper
	g.Go(func() error {
		services.Reaper.Run(gctx, cfg.Session.ReapInterval)
		return nil
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("server stopped with error", "err", err)
		return err
	}
	log.Infow("server stopped")
	return nil
}
