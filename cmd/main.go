package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/HarshaOnlineJourny/ChatApp/internal/app/registry"
	"github.com/HarshaOnlineJourny/ChatApp/internal/app/server"
	"github.com/HarshaOnlineJourny/ChatApp/internal/app/worker"
	"github.com/HarshaOnlineJourny/ChatApp/internal/config"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/services"
	"github.com/HarshaOnlineJourny/ChatApp/internal/platform/logger"
	"github.com/HarshaOnlineJourny/ChatApp/internal/platform/telemetry"
	badgerPlugin "github.com/HarshaOnlineJourny/ChatApp/internal/plugins/badger"
	"github.com/HarshaOnlineJourny/ChatApp/internal/plugins/postgres"
	redisPlugin "github.com/HarshaOnlineJourny/ChatApp/internal/plugins/redis"
)

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	_ = godotenv.Load()
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	// Telemetry
	if cfg.Tracer.Address != "" {
		otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
		if err != nil {
			log.Error("failed to initialize telemetry", "err", err)
		}
		defer func() {
			log.Info("flushing telemetry...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error("telemetry shutdown failed", "err", err)
			}
		}()
	}

	// Durable archive pipeline (optional). The in-memory path stays
	// authoritative either way.
	var archiveQueue contracts.ArchiveQueue
	var userArchive domain.UserArchive
	if cfg.Archive.Backend != "" {
		rdb, err := redisPlugin.NewRedisClient(ctx, *cfg.Redis)
		if err != nil {
			log.Error("redis connection failed", "url", cfg.Redis.URL, "err", err)
			return
		}
		log.Info("redis connected")
		queue := redisPlugin.NewArchiveQueue(rdb)
		archiveQueue = queue

		var messageArchive domain.MessageArchive
		switch cfg.Archive.Backend {
		case "postgres":
			pdb, err := postgres.New(ctx, *cfg.Postgres)
			if err != nil {
				log.Error("postgres connection failed", "err", err)
				return
			}
			log.Info("postgres connected")
			messageArchive = postgres.NewMessageArchive(pdb)
			userArchive = postgres.NewUserArchive(pdb)
		case "badger":
			bdb, err := badgerPlugin.Open(cfg.Badger.Dir)
			if err != nil {
				log.Error("badger open failed", "dir", cfg.Badger.Dir, "err", err)
				return
			}
			defer bdb.Close()
			messageArchive = badgerPlugin.NewMessageArchive(bdb)
		default:
			log.Error("unknown archive backend", "backend", cfg.Archive.Backend)
			return
		}

		wrkr := worker.NewArchiveWorker(log, queue, messageArchive, cfg.Archive.Group)
		go func() {
			if err := wrkr.Run(ctx); err != nil {
				log.Error("archive worker stopped", "err", err)
			}
		}()
	}

	// Core services
	hub := registry.NewRegistry()
	historySvc := services.NewHistoryService(log, archiveQueue)
	unreadSvc := services.NewUnreadService()
	reactionSvc := services.NewReactionService(log, historySvc, hub)
	presenceSvc := services.NewPresenceService(log, hub, cfg.Presence.Interval)
	routerSvc := services.NewRouterService(log, hub, historySvc, unreadSvc, reactionSvc, presenceSvc, userArchive)

	go presenceSvc.Run(ctx)

	// Server
	srv := server.NewServer(log, cfg.Service.Name, cfg.Service.Addr, hub, routerSvc)
	if err := srv.Start(ctx); err != nil {
		log.Error("server stopped", "err", err)
	}
}
