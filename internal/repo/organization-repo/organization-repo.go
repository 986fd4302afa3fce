package organization_repo

import (
	"context"

	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	"github.com/jackc/pgx/v5"
)

// Querier wird von *pgxpool.Pool und pgx.Tx erfüllt.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type OrganizationRepo struct {
	db Querier
}

func NewOrganizationRepo(db Querier) *OrganizationRepo {
	return &OrganizationRepo{
		db: db,
	}
}

func (r *OrganizationRepo) FindOrganizationName(ctx context.Context, organizationID int64) (string, *app_errors.AppError) {
	query := `
		SELECT name FROM organizations WHERE id = $1 LIMIT 1
	`
	var name string
	if err := r.db.QueryRow(ctx, query, organizationID).Scan(&name); err != nil {
		return "", app_errors.MapPgxError(err, "organization.not_found")
	}
	return name, nil
}

func (r *OrganizationRepo) OrganizationExists(ctx context.Context, organizationID int64) (bool, *app_errors.AppError) {
	query := `
		SELECT EXISTS (SELECT 1 FROM organizations WHERE id = $1)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, organizationID).Scan(&exists); err != nil {
		return false, app_errors.MapPgxError(err, "organization.not_found")
	}
	return exists, nil
}
