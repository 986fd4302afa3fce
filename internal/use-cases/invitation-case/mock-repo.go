package invitation_case

import (
	"context"

	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	"github.com/stretchr/testify/mock"
)

type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) FindOrganizationName(ctx context.Context, organizationID int64) (string, *app_errors.AppError) {
	args := m.Called(ctx, organizationID)
	return args.String(0), args.Get(1).(*app_errors.AppError)
}

func (m *MockOrganizationRepo) OrganizationExists(ctx context.Context, organizationID int64) (bool, *app_errors.AppError) {
	args := m.Called(ctx, organizationID)
	return args.Bool(0), args.Get(1).(*app_errors.AppError)
}
