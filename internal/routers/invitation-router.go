package routers

import (
	"time"

	invitation_handlers "github.com/Xenn-00/organisation-meister/internal/handlers/invitation"
	"github.com/Xenn-00/organisation-meister/internal/i18n"
	invitation_case "github.com/Xenn-00/organisation-meister/internal/use-cases/invitation-case"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redis_fiber "github.com/gofiber/storage/redis"
)

func InvitationRouter(api fiber.Router, service invitation_case.InvitationServiceContract, i18nSvc i18n.Service, cfgStorage CfgRedisStorage) {
	r := api.Group("/invitations")
	h := invitation_handlers.NewInvitationHandler(service, i18nSvc)

	redisStore := redis_fiber.New(redis_fiber.Config{
		Host:     cfgStorage.Host,
		Port:     cfgStorage.Port,
		Password: cfgStorage.Password,
		Database: cfgStorage.Database,
	})

	r.Post("/", rateLimit(redisStore, i18nSvc, "issue", 10, time.Minute), h.IssueInvitation)
	// vor /:token, sonst greift der Token-Parameter
	r.Get("/dead-letters", h.ListDeadLetters)
	r.Get("/:token", h.LookupInvitation)
	r.Post("/:token/accept", rateLimit(redisStore, i18nSvc, "accept", 5, 30*time.Second), h.AcceptInvitation)
	r.Post("/:token/resend", rateLimit(redisStore, i18nSvc, "resend", 10, 24*time.Hour), h.ResendInvitation)
}

// rateLimit begrenzt pro Client-IP und, falls vorhanden, pro Token.
func rateLimit(store fiber.Storage, i18nSvc i18n.Service, scope string, max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if token := c.Params("token"); token != "" {
				return "invitation:" + scope + ":" + token + ":" + c.IP()
			}
			return "invitation:" + scope + ":ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			lang, _ := c.Locals("lang").(string)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"status": "error",
				"error": fiber.Map{
					"code":    fiber.StatusTooManyRequests,
					"type":    "RATE_LIMITED",
					"message": i18nSvc.T(lang, "rate_limit.exceeded", nil),
				},
			})
		},
		Storage: store,
	})
}
