package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// maxRequestIDLength begrenzt übernommene IDs, damit sie Logs nicht aufblähen.
const maxRequestIDLength = 64

// RequestIDMiddleware fügt jeder Anfrage eine eindeutige Anforderungs-ID hinzu.
// Eine vom Client gesendete X-Request-ID wird übernommen, sofern sie kurz genug ist.
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("Fehler beim Generieren der Anforderungs-ID: %w", err)
			}
			requestID = "OM-" + id
		}

		c.Locals("request_id", requestID)
		c.Set(fiber.HeaderXRequestID, requestID)

		return c.Next()
	}
}
