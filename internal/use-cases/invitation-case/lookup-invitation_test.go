package invitation_case

import (
	"context"
	"errors"
	"testing"

	"github.com/Xenn-00/organisation-meister/internal/entity"
	use_cases "github.com/Xenn-00/organisation-meister/internal/use-cases"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLookupInvitation_Found(t *testing.T) {
	ctx := context.Background()

	c := new(use_cases.MockInvitationCache)
	service := newService(c, new(use_cases.MockDeliveryQueue), new(MockOrganizationRepo), realRenderer(t), staticTokens())

	stored := &entity.InvitationRecord{Token: testToken, Email: "a@b.com", OrganizationID: 42, Status: entity.PENDING}
	c.On("Get", ctx, testToken).Return(stored, nil)

	record, err := service.LookupInvitation(ctx, testToken)

	assert.Nil(t, err)
	assert.Equal(t, stored, record)
}

// Absent and backend failure look the same to the caller
func TestLookupInvitation_AbsentAndErrorAreIndistinguishable(t *testing.T) {
	ctx := context.Background()

	c := new(use_cases.MockInvitationCache)
	service := newService(c, new(use_cases.MockDeliveryQueue), new(MockOrganizationRepo), realRenderer(t), staticTokens())

	c.On("Get", ctx, "missing").Return(nil, nil)
	c.On("Get", ctx, "broken").Return(nil, errors.New("i/o timeout"))

	_, missingErr := service.LookupInvitation(ctx, "missing")
	_, brokenErr := service.LookupInvitation(ctx, "broken")

	assert.NotNil(t, missingErr)
	assert.NotNil(t, brokenErr)
	assert.Equal(t, fiber.StatusNotFound, missingErr.Code)
	assert.Equal(t, missingErr.Code, brokenErr.Code)
	assert.Equal(t, missingErr.Type, brokenErr.Type)
	assert.Equal(t, missingErr.MessageKey, brokenErr.MessageKey)
	assert.Nil(t, brokenErr.Err)
}

func TestLookupInvitation_EmptyToken(t *testing.T) {
	c := new(use_cases.MockInvitationCache)
	service := newService(c, new(use_cases.MockDeliveryQueue), new(MockOrganizationRepo), realRenderer(t), staticTokens())

	_, err := service.LookupInvitation(context.Background(), "")

	assert.NotNil(t, err)
	assert.Equal(t, "invitation.not_found", err.MessageKey)
	c.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
