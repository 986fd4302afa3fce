package organization_repo

import (
	"context"

	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
)

// OrganizationRepoContract ist der lesende Zugriff der Einladungs-Pipeline auf Organisationen.
type OrganizationRepoContract interface {
	FindOrganizationName(ctx context.Context, organizationID int64) (string, *app_errors.AppError)
	OrganizationExists(ctx context.Context, organizationID int64) (bool, *app_errors.AppError)
}
