package routers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthRouter registriert Health- und Readiness-Endpoints auf dem gegebenen Fiber-Router.
//   - GET /healthz: JSON mit Statusinformation (HTTP 200).
//   - GET /livez:   einfache Liveness-Antwort als Text.
//   - GET /readyz:  prüft Redis und Postgres, HTTP 503 sobald eines fehlt.
func HealthRouter(app fiber.Router, db *pgxpool.Pool, rdb *redis.Client) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "Health-OK",
			"message": "Service lebt.",
		})
	})

	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Lebt.")
	})

	app.Get("/readyz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		// Redis hält Einladungen und Warteschlange
		if err := rdb.Ping(ctx).Err(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "Fehlversuch",
				"error":  "Redis ist nicht bereit.",
			})
		}

		if db != nil {
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "Fehlversuch",
					"error":  "Datenbank ist nicht bereit.",
				})
			}
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "Bereit",
			"message": "Datenbank und Redis sind einsatzbereit.",
		})
	})
}
