package invitation_handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	invitation_dto "github.com/Xenn-00/organisation-meister/internal/dtos/invitation-dto"
	"github.com/Xenn-00/organisation-meister/internal/entity"
	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	internal_i18n "github.com/Xenn-00/organisation-meister/internal/i18n"
	"github.com/Xenn-00/organisation-meister/internal/middleware"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const token = "TOKEN0123456789abcdefghijklmnopq"

type errorBody struct {
	Status string `json:"status"`
	Error  struct {
		Code      int    `json:"code"`
		Type      string `json:"type"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

type okBody struct {
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
	Meta      *struct {
		Offset int64 `json:"offset"`
		Limit  int64 `json:"limit"`
		Count  int   `json:"count"`
	} `json:"meta"`
}

func setupApp(svc *MockInvitationService) *fiber.App {
	i18n := internal_i18n.NewInitI18nService()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandlerMiddleware(i18n)})
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.AcceptLanguageMiddleware())

	h := NewInvitationHandler(svc, i18n)
	r := app.Group("/invitations")
	r.Post("/", h.IssueInvitation)
	r.Get("/dead-letters", h.ListDeadLetters)
	r.Get("/:token", h.LookupInvitation)
	r.Post("/:token/accept", h.AcceptInvitation)
	r.Post("/:token/resend", h.ResendInvitation)
	return app
}

func pendingRecord() *entity.InvitationRecord {
	return &entity.InvitationRecord{
		Token:          token,
		Email:          "ada@example.com",
		OrganizationID: 7,
		Status:         entity.PENDING,
		Expiry:         time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC),
	}
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var out T
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestIssueInvitation_Created(t *testing.T) {
	svc := new(MockInvitationService)
	svc.On("IssueInvitation", mock.Anything, mock.MatchedBy(func(r *invitation_dto.IssueInvitationRequest) bool {
		return r.Email == "ada@example.com" && r.OrganizationID == 7
	})).Return(pendingRecord(), (*app_errors.AppError)(nil))

	req := httptest.NewRequest("POST", "/invitations", strings.NewReader(`{"email":"ada@example.com","organization_id":7}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-1")

	resp, err := setupApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decode[okBody](t, resp.Body)
	assert.Equal(t, "Invitation issued.", body.Message)
	assert.Equal(t, "req-1", body.RequestID)
	assert.Contains(t, string(body.Data), `"token":"`+token+`"`)
	assert.Contains(t, string(body.Data), `"status":"PENDING"`)
	svc.AssertExpectations(t)
}

func TestIssueInvitation_ValidationError(t *testing.T) {
	svc := new(MockInvitationService)

	req := httptest.NewRequest("POST", "/invitations", strings.NewReader(`{"email":"not-an-email","organization_id":0}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := setupApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode[errorBody](t, resp.Body)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, app_errors.ErrValidation, body.Error.Type)
	assert.True(t, strings.HasPrefix(body.Error.RequestID, "OM-"))

	fields := map[string]string{}
	for _, d := range body.Error.Details {
		fields[d.Field] = d.Reason
	}
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "required", fields["organization_id"])
	svc.AssertNotCalled(t, "IssueInvitation", mock.Anything, mock.Anything)
}

func TestIssueInvitation_InvalidBody(t *testing.T) {
	svc := new(MockInvitationService)

	req := httptest.NewRequest("POST", "/invitations", strings.NewReader(`{"email":`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := setupApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode[errorBody](t, resp.Body)
	assert.Equal(t, app_errors.ErrInvalidBody, body.Error.Type)
}

func TestIssueInvitation_QueuePushFailureKeepsToken(t *testing.T) {
	svc := new(MockInvitationService)
	svc.On("IssueInvitation", mock.Anything, mock.Anything).
		Return(pendingRecord(), app_errors.NewQueuePushError(token, assert.AnError))

	req := httptest.NewRequest("POST", "/invitations", strings.NewReader(`{"email":"ada@example.com","organization_id":7}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := setupApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body := decode[errorBody](t, resp.Body)
	assert.Equal(t, app_errors.ErrQueuePush, body.Error.Type)
	require.Len(t, body.Error.Details, 1)
	assert.Equal(t, "token", body.Error.Details[0].Field)
	assert.Contains(t, body.Error.Details[0].Message, token)
}

func TestLookupInvitation_NotFoundGerman(t *testing.T) {
	svc := new(MockInvitationService)
	svc.On("LookupInvitation", mock.Anything, token).
		Return(nil, app_errors.NewNotFoundError("invitation.not_found"))

	req := httptest.NewRequest("GET", "/invitations/"+token, nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.7")

	resp, err := setupApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decode[errorBody](t, resp.Body)
	assert.Equal(t, "Einladung nicht gefunden oder abgelaufen.", body.Error.Message)
}

func TestLookupInvitation_InvalidToken(t *testing.T) {
	svc := new(MockInvitationService)

	resp, err := setupApp(svc).Test(httptest.NewRequest("GET", "/invitations/bad-token!", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode[errorBody](t, resp.Body)
	require.NotEmpty(t, body.Error.Details)
	assert.Equal(t, "alphanum", body.Error.Details[0].Reason)
	svc.AssertNotCalled(t, "LookupInvitation", mock.Anything, mock.Anything)
}

func TestAcceptInvitation_OK(t *testing.T) {
	svc := new(MockInvitationService)
	accepted := pendingRecord()
	accepted.Status = entity.ACCEPTED
	svc.On("AcceptInvitation", mock.Anything, token, mock.MatchedBy(func(r *invitation_dto.AcceptInvitationRequest) bool {
		return r.Email == "ada@example.com"
	})).Return(accepted, (*app_errors.AppError)(nil))

	req := httptest.NewRequest("POST", "/invitations/"+token+"/accept", strings.NewReader(`{"email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := setupApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[okBody](t, resp.Body)
	assert.Contains(t, string(body.Data), `"status":"ACCEPTED"`)
}

func TestAcceptInvitation_Conflict(t *testing.T) {
	svc := new(MockInvitationService)
	svc.On("AcceptInvitation", mock.Anything, token, mock.Anything).
		Return(nil, app_errors.NewAppError(fiber.StatusConflict, app_errors.ErrConflict, "invitation.not_pending", nil))

	req := httptest.NewRequest("POST", "/invitations/"+token+"/accept", strings.NewReader(`{"email":"ada@example.com"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := setupApp(svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestResendInvitation_Accepted(t *testing.T) {
	svc := new(MockInvitationService)
	svc.On("ResendInvitation", mock.Anything, token).Return(pendingRecord(), (*app_errors.AppError)(nil))

	resp, err := setupApp(svc).Test(httptest.NewRequest("POST", "/invitations/"+token+"/resend", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestListDeadLetters_DefaultLimit(t *testing.T) {
	svc := new(MockInvitationService)
	letters := []entity.DeadLetter{{
		Job:      entity.DeliveryJob{ID: "job-1", Kind: entity.DeliveryInvitation, Token: token, Recipient: "ada@example.com", Subject: "Invitation to join Acme"},
		Reason:   "rejected",
		Attempts: 1,
		FailedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	svc.On("ListDeadLetters", mock.Anything, int64(0), int64(0)).Return(letters, (*app_errors.AppError)(nil))

	resp, err := setupApp(svc).Test(httptest.NewRequest("GET", "/invitations/dead-letters", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode[okBody](t, resp.Body)
	require.NotNil(t, body.Meta)
	assert.Equal(t, int64(20), body.Meta.Limit)
	assert.Equal(t, 1, body.Meta.Count)
	assert.Contains(t, string(body.Data), `"reason":"rejected"`)
	assert.NotContains(t, string(body.Data), "html")
}

func TestListDeadLetters_LimitTooLarge(t *testing.T) {
	svc := new(MockInvitationService)

	resp, err := setupApp(svc).Test(httptest.NewRequest("GET", "/invitations/dead-letters?limit=500", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "ListDeadLetters", mock.Anything, mock.Anything, mock.Anything)
}
