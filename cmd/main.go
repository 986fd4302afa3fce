// Package main ist der Einstiegspunkt der API von "organisation-meister".
// Es lädt die Konfiguration, öffnet Postgres und Redis, baut die Einladungs-Pipeline
// zusammen und startet die Fiber-API mit Graceful Shutdown.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/abstraction/cache"
	"github.com/Xenn-00/organisation-meister/internal/config"
	"github.com/Xenn-00/organisation-meister/internal/db"
	"github.com/Xenn-00/organisation-meister/internal/i18n"
	"github.com/Xenn-00/organisation-meister/internal/mail"
	"github.com/Xenn-00/organisation-meister/internal/middleware"
	"github.com/Xenn-00/organisation-meister/internal/queue"
	organization_repo "github.com/Xenn-00/organisation-meister/internal/repo/organization-repo"
	"github.com/Xenn-00/organisation-meister/internal/routers"
	invitation_case "github.com/Xenn-00/organisation-meister/internal/use-cases/invitation-case"
	"github.com/Xenn-00/organisation-meister/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// 0. I18N Einführung
	i18nSvc := i18n.NewInitI18nService()

	// 1. Konfiguration laden
	cfg := config.LoadConfig()
	if cfg == nil {
		log.Fatal().Msg("Konfiguration fehlt oder ist ungültig")
	}
	if err := cfg.RequirePostgres(); err != nil {
		log.Fatal().Err(err).Msg("Konfiguration ungültig")
	}
	setLogLevel(cfg.APP.LogLevel)

	// 2. Postgres- und Redis-Verbindungs-Pool erstellen
	dbPool, err := db.ConnectPool(context.Background(), cfg.DATABASE.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Postgres nicht erreichbar")
	}
	redisPool, err := db.RedisPool(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, cfg.DATABASE.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis nicht erreichbar")
	}

	// 3. Pipeline zusammenbauen
	renderer, err := mail.NewTemplateRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("E-Mail-Vorlagen konnten nicht geladen werden")
	}
	orgRepo := organization_repo.NewCachedOrganizationRepo(
		organization_repo.NewOrganizationRepo(dbPool),
		redisPool,
		cfg.INVITATION.OrganizationNameTTL,
	)
	service := invitation_case.NewInvitationService(
		cfg,
		cache.NewRedisInvitationCache(redisPool),
		queue.NewRedisDeliveryQueue(redisPool, cfg.DISPATCHER.BlockTimeout),
		orgRepo,
		renderer,
		utils.NewCodeGenerator(cfg.INVITATION.TokenLength),
	)

	// 4. Fiber-App mit ErrorHandler, RequestID- und Logger-Middleware erstellen
	app := fiber.New(fiber.Config{
		AppName:      cfg.APP.Name,
		ErrorHandler: middleware.ErrorHandlerMiddleware(i18nSvc),
	})
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.AcceptLanguageMiddleware())
	app.Use(middleware.LoggerMiddleware())

	// 5. Routen registrieren
	routers.SetupRoutes(app, routers.Deps{
		DB:         dbPool,
		Redis:      redisPool,
		I18n:       i18nSvc,
		Service:    service,
		CfgStorage: limiterStorage(cfg),
	})

	go func() {
		log.Info().Msgf("Starte %s auf Port %s", cfg.APP.Name, cfg.APP.Port)
		if err := app.Listen(fmt.Sprintf(":%s", cfg.APP.Port)); err != nil {
			log.Fatal().Err(err).Msg("Der Server konnte nicht gestartet werden")
		}
	}()

	// 6. Graceful Shutdown bei SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-ctx.Done()
	stop()
	log.Warn().Msg("Shutdown-Signal empfangen... Vorbereitung zum Herunterfahren.")

	// erst Fiber, damit keine Anfrage mehr auf geschlossene Pools trifft
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Beim Herunterfahren ist ein Fehler aufgetreten")
	}

	if err := redisPool.Close(); err != nil {
		log.Error().Err(err).Msg("Redis-Pool konnte nicht geschlossen werden")
	}
	dbPool.Close()
	log.Info().Msg("Server ordnungsgemäß heruntergefahren.")
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func limiterStorage(cfg *config.AppConfig) routers.CfgRedisStorage {
	host, portStr, err := net.SplitHostPort(cfg.DATABASE.Redis.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.DATABASE.Redis.Addr).Msg("Redis-Adresse ungültig")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatal().Err(err).Str("port", portStr).Msg("Redis-Port ungültig")
	}
	return routers.CfgRedisStorage{
		Host:     host,
		Port:     port,
		Password: cfg.DATABASE.Redis.Password,
		Database: cfg.DATABASE.Redis.LimiterDB,
	}
}
