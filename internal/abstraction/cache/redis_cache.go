package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/entity"
	"github.com/redis/go-redis/v9"
)

const (
	fieldEmail          = "email"
	fieldOrganizationID = "organizationId"
	fieldStatus         = "status"
	fieldExpiry         = "expiry"
)

// setStatusScript schreibt den Status nur, solange der Key existiert.
// Ein HSET auf einen abgelaufenen Key würde sonst einen Eintrag ohne TTL anlegen.
var setStatusScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	redis.call('HSET', KEYS[1], 'status', ARGV[1])
	return 1
end
return 0
`)

// removeIfPendingScript löscht den Eintrag nur im Status PENDING. Von mehreren
// gleichzeitigen Aufrufen bekommt genau einer 1 zurück.
var removeIfPendingScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'status') == 'PENDING' then
	redis.call('DEL', KEYS[1])
	return 1
end
return 0
`)

type RedisInvitationCache struct {
	client *redis.Client
}

func NewRedisInvitationCache(client *redis.Client) *RedisInvitationCache {
	return &RedisInvitationCache{client: client}
}

// Put schreibt alle Felder und die TTL in einer MULTI/EXEC-Transaktion,
// damit ein paralleles Get nie einen halb geschriebenen Eintrag sieht.
// Der Key läuft genau zu record.Expiry ab; ttl gilt nur für Einträge ohne Ablaufzeitpunkt.
func (c *RedisInvitationCache) Put(ctx context.Context, token string, record *entity.InvitationRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("invitation cache: ttl must be positive, got %s", ttl)
	}
	key := InvitationKey(token)

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldEmail, record.Email,
			fieldOrganizationID, strconv.FormatInt(record.OrganizationID, 10),
			fieldStatus, string(record.Status),
			fieldExpiry, record.Expiry.UTC().Format(time.RFC3339Nano),
		)
		if record.Expiry.IsZero() {
			pipe.PExpire(ctx, key, ttl)
		} else {
			pipe.PExpireAt(ctx, key, record.Expiry)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invitation cache put: %w", err)
	}
	return nil
}

func (c *RedisInvitationCache) Get(ctx context.Context, token string) (*entity.InvitationRecord, error) {
	fields, err := c.client.HGetAll(ctx, InvitationKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("invitation cache get: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return decodeRecord(token, fields)
}

func (c *RedisInvitationCache) Remove(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, InvitationKey(token)).Err(); err != nil {
		return fmt.Errorf("invitation cache remove: %w", err)
	}
	return nil
}

func (c *RedisInvitationCache) RemoveIfPending(ctx context.Context, token string) (bool, error) {
	n, err := removeIfPendingScript.Run(ctx, c.client, []string{InvitationKey(token)}).Int()
	if err != nil {
		return false, fmt.Errorf("invitation cache remove pending: %w", err)
	}
	return n == 1, nil
}

func (c *RedisInvitationCache) SetStatus(ctx context.Context, token string, status entity.InvitationStatusEnum) (bool, error) {
	if !status.IsValid() {
		return false, fmt.Errorf("invitation cache: unknown status %q", status)
	}
	n, err := setStatusScript.Run(ctx, c.client, []string{InvitationKey(token)}, string(status)).Int()
	if err != nil {
		return false, fmt.Errorf("invitation cache set status: %w", err)
	}
	return n == 1, nil
}

func decodeRecord(token string, fields map[string]string) (*entity.InvitationRecord, error) {
	orgID, err := strconv.ParseInt(fields[fieldOrganizationID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invitation cache: corrupt organizationId for %s: %w", token, err)
	}
	expiry, err := time.Parse(time.RFC3339Nano, fields[fieldExpiry])
	if err != nil {
		return nil, fmt.Errorf("invitation cache: corrupt expiry for %s: %w", token, err)
	}
	status := entity.InvitationStatusEnum(fields[fieldStatus])
	if !status.IsValid() {
		return nil, fmt.Errorf("invitation cache: corrupt status %q for %s", status, token)
	}

	return &entity.InvitationRecord{
		Token:          token,
		Email:          fields[fieldEmail],
		OrganizationID: orgID,
		Status:         status,
		Expiry:         expiry,
	}, nil
}
