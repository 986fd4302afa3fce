package handlers

import (
	"github.com/Xenn-00/organisation-meister/internal/dtos"
	invitation_dto "github.com/Xenn-00/organisation-meister/internal/dtos/invitation-dto"
	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CreateResponse erstellt eine standardisierte WebResponse.
func CreateResponse[T any](message string, data T, requestID string, details ...any) dtos.WebResponse[T] {
	return dtos.WebResponse[T]{
		Message:   message,
		Data:      data,
		RequestID: requestID,
		Details:   details,
	}
}

func GetRequestID(c *fiber.Ctx) string {
	reqID, ok := c.Locals("request_id").(string)
	if !ok {
		reqID = "unknown"
	}
	return reqID
}

func GetLang(c *fiber.Ctx) string {
	lang, ok := c.Locals("lang").(string)
	if !ok || lang == "" {
		return "en"
	}
	return lang
}

func GetParamInvitationToken(c *fiber.Ctx, v *validator.Validate) (string, *app_errors.AppError) {
	var param invitation_dto.ParamInvitationToken
	if err := c.ParamsParser(&param); err != nil {
		return "", app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidParam, "request.invalid_param", err)
	}

	if err := v.Struct(param); err != nil {
		return "", app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}
	return param.Token, nil
}
