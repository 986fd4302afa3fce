package invitation_handlers

import (
	"github.com/Xenn-00/organisation-meister/internal/dtos"
	invitation_dto "github.com/Xenn-00/organisation-meister/internal/dtos/invitation-dto"
	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	"github.com/Xenn-00/organisation-meister/internal/handlers"
	internal_i18n "github.com/Xenn-00/organisation-meister/internal/i18n"
	invitation_case "github.com/Xenn-00/organisation-meister/internal/use-cases/invitation-case"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type InvitationHandler struct {
	validator *validator.Validate
	service   invitation_case.InvitationServiceContract
	i18n      internal_i18n.Service
}

func NewInvitationHandler(service invitation_case.InvitationServiceContract, i18n internal_i18n.Service) *InvitationHandler {
	return &InvitationHandler{
		validator: validator.New(),
		service:   service,
		i18n:      i18n,
	}
}

func (h *InvitationHandler) IssueInvitation(c *fiber.Ctx) error {
	var req invitation_dto.IssueInvitationRequest

	// Req Body geparst werden
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}

	// Req validiert werden
	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	record, err := h.service.IssueInvitation(c.Context(), &req)
	if err != nil {
		return err
	}

	return h.respond(c, fiber.StatusCreated, "invitation.issued", invitation_dto.ToInvitationResponse(record))
}

func (h *InvitationHandler) LookupInvitation(c *fiber.Ctx) error {
	token, err := handlers.GetParamInvitationToken(c, h.validator)
	if err != nil {
		return err
	}

	record, err := h.service.LookupInvitation(c.Context(), token)
	if err != nil {
		return err
	}

	return h.respond(c, fiber.StatusOK, "invitation.found", invitation_dto.ToInvitationResponse(record))
}

func (h *InvitationHandler) AcceptInvitation(c *fiber.Ctx) error {
	token, err := handlers.GetParamInvitationToken(c, h.validator)
	if err != nil {
		return err
	}

	var req invitation_dto.AcceptInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidBody, "request.invalid_body", err)
	}
	if err := h.validator.Struct(req); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	record, err := h.service.AcceptInvitation(c.Context(), token, &req)
	if err != nil {
		return err
	}

	return h.respond(c, fiber.StatusOK, "invitation.accepted", invitation_dto.ToInvitationResponse(record))
}

func (h *InvitationHandler) ResendInvitation(c *fiber.Ctx) error {
	token, err := handlers.GetParamInvitationToken(c, h.validator)
	if err != nil {
		return err
	}

	record, err := h.service.ResendInvitation(c.Context(), token)
	if err != nil {
		return err
	}

	return h.respond(c, fiber.StatusAccepted, "invitation.resent", invitation_dto.ToInvitationResponse(record))
}

func (h *InvitationHandler) ListDeadLetters(c *fiber.Ctx) error {
	var q invitation_dto.DeadLetterQuery
	if err := c.QueryParser(&q); err != nil {
		return app_errors.NewAppError(fiber.StatusBadRequest, app_errors.ErrInvalidQuery, "request.invalid_query", err)
	}
	if err := h.validator.Struct(q); err != nil {
		return app_errors.NewValidationError(app_errors.ParseValidationError(err))
	}

	letters, err := h.service.ListDeadLetters(c.Context(), q.Offset, q.Limit)
	if err != nil {
		return err
	}

	limit := q.Limit
	if limit == 0 {
		limit = invitation_case.DefaultDeadLetterLimit
	}

	resp := invitation_dto.ToDeadLetterResponses(letters)
	webResp := handlers.CreateResponse(h.i18n.T(handlers.GetLang(c), "dead_letters.listed", nil), resp, handlers.GetRequestID(c))
	webResp.Meta = &dtos.PaginationMeta{Offset: q.Offset, Limit: limit, Count: len(resp)}
	if err := c.Status(fiber.StatusOK).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}
	return nil
}

func (h *InvitationHandler) respond(c *fiber.Ctx, status int, messageKey string, data *invitation_dto.InvitationResponse) error {
	webResp := handlers.CreateResponse(h.i18n.T(handlers.GetLang(c), messageKey, nil), data, handlers.GetRequestID(c))
	if err := c.Status(status).JSON(webResp); err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "internal_error", err)
	}
	return nil
}
