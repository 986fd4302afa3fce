package organization_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/entity"
	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	"github.com/Xenn-00/organisation-meister/internal/utils"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DefaultOrganizationNameTTL = 10 * time.Minute

// CachedOrganizationRepo legt Organisationsnamen für ttl in Redis ab.
// Redis-Fehler werden geloggt und fallen auf die Datenbank zurück.
type CachedOrganizationRepo struct {
	inner OrganizationRepoContract
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedOrganizationRepo(inner OrganizationRepoContract, rdb *redis.Client, ttl time.Duration) *CachedOrganizationRepo {
	if ttl <= 0 {
		ttl = DefaultOrganizationNameTTL
	}
	return &CachedOrganizationRepo{inner: inner, rdb: rdb, ttl: ttl}
}

func organizationNameKey(id int64) string {
	return fmt.Sprintf("organization:name:%d", id)
}

func (r *CachedOrganizationRepo) FindOrganizationName(ctx context.Context, organizationID int64) (string, *app_errors.AppError) {
	key := organizationNameKey(organizationID)

	cached, appErr := utils.GetCacheData[entity.OrganizationEntity](ctx, r.rdb, key)
	if appErr != nil {
		log.Warn().Err(appErr).Str("key", key).Msg("Organization cache read failed, falling back to database")
	}
	if cached != nil {
		return cached.Name, nil
	}

	name, appErr := r.inner.FindOrganizationName(ctx, organizationID)
	if appErr != nil {
		return "", appErr
	}

	if appErr := utils.SetCacheData(ctx, r.rdb, key, &entity.OrganizationEntity{ID: organizationID, Name: name}, r.ttl); appErr != nil {
		log.Warn().Err(appErr).Str("key", key).Msg("Organization cache write failed")
	}
	return name, nil
}

// OrganizationExists ist ein Treffer, wenn der Name bereits im Cache liegt.
func (r *CachedOrganizationRepo) OrganizationExists(ctx context.Context, organizationID int64) (bool, *app_errors.AppError) {
	cached, _ := utils.GetCacheData[entity.OrganizationEntity](ctx, r.rdb, organizationNameKey(organizationID))
	if cached != nil {
		return true, nil
	}
	return r.inner.OrganizationExists(ctx, organizationID)
}
