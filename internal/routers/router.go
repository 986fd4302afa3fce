package routers

import (
	"github.com/Xenn-00/organisation-meister/internal/i18n"
	invitation_case "github.com/Xenn-00/organisation-meister/internal/use-cases/invitation-case"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// CfgRedisStorage beschreibt die Redis-Datenbank des Rate-Limiters.
type CfgRedisStorage struct {
	Host     string
	Port     int
	Password string
	Database int
}

type Deps struct {
	DB         *pgxpool.Pool
	Redis      *redis.Client
	I18n       i18n.Service
	Service    invitation_case.InvitationServiceContract
	CfgStorage CfgRedisStorage
}

// SetupRoutes richtet die API-Routen ein.
func SetupRoutes(app *fiber.App, deps Deps) {
	api := app.Group("/api/v1")

	InvitationRouter(api, deps.Service, deps.I18n, deps.CfgStorage)
	HealthRouter(api, deps.DB, deps.Redis)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
