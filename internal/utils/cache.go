package utils

import (
	"context"
	"errors"
	"time"

	app_errors "github.com/Xenn-00/organisation-meister/internal/errors"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// GetCacheData liest einen JSON-Wert aus Redis und dekodiert ihn nach T.
// Ein Cache-Miss liefert (nil, nil), damit der Caller auf die Datenquelle zurückfallen kann.
func GetCacheData[T any](ctx context.Context, rdb redis.Cmdable, cacheKey string) (*T, *app_errors.AppError) {
	val, err := rdb.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "cache.read_failed", err)
	}

	var data T
	if err := json.Unmarshal(val, &data); err != nil {
		return nil, app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "cache.decode_failed", err)
	}
	return &data, nil
}

// SetCacheData speichert data als JSON mit Ablaufzeit.
func SetCacheData[T any](ctx context.Context, rdb redis.Cmdable, cacheKey string, data *T, expire time.Duration) *app_errors.AppError {
	raw, err := json.Marshal(data)
	if err != nil {
		return app_errors.NewAppError(fiber.StatusInternalServerError, app_errors.ErrInternal, "cache.encode_failed", err)
	}

	if err := rdb.Set(ctx, cacheKey, raw, expire).Err(); err != nil {
		return app_errors.NewCacheWriteError(err)
	}
	return nil
}
