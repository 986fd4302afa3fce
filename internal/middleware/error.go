package middleware

import (
	"errors"

	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	internal_i18n "github.com/Xenn-00/organisation-meister/internal/i18n"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandlerMiddleware rendert AppErrors als JSON mit übersetzter Nachricht.
// Fehler von fiber selbst (404 Route, 405, 413 ...) behalten ihren Status.
func ErrorHandlerMiddleware(i18nSvc internal_i18n.Service) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		lang, _ := c.Locals("lang").(string)
		if lang == "" {
			lang = "en"
		}

		var appErr *app_errors.AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &fiberErr):
			appErr = app_errors.NewAppError(fiberErr.Code, app_errors.ErrInternal, "request.failed", nil)
			if fiberErr.Code == fiber.StatusNotFound {
				appErr.Type = app_errors.ErrNotFound
				appErr.MessageKey = "route.not_found"
			}
		default:
			appErr = app_errors.NewAppError(
				fiber.StatusInternalServerError,
				app_errors.ErrInternal,
				"internal_error",
				err,
			)
		}

		message := i18nSvc.T(lang, appErr.MessageKey, nil)

		reqID, _ := c.Locals("request_id").(string)

		respErr := fiber.Map{
			"code":       appErr.Code,
			"type":       appErr.Type,
			"message":    message,
			"request_id": reqID,
		}

		if len(appErr.Details) > 0 {
			var details []fiber.Map

			for _, d := range appErr.Details {
				detail := fiber.Map{
					"field":   d.Field,
					"reason":  d.Reason,
					"message": i18nSvc.T(lang, d.MessageKey, d.Params),
				}
				if len(d.Params) > 0 {
					detail["params"] = d.Params
				}
				details = append(details, detail)
			}

			respErr["details"] = details
		}

		if appErr.Err != nil {
			log.Error().Err(appErr.Err).Str("request_id", reqID).Str("type", appErr.Type).Msg("application error")
		}

		return c.Status(appErr.Code).JSON(fiber.Map{
			"status": "error",
			"error":  respErr,
		})
	}
}
