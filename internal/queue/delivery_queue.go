package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Xenn-00/organisation-meister/internal/entity"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueKey      = "invitation:queue"
	ProcessingKey = "invitation:queue:processing"
	LeasesKey     = "invitation:queue:leases"
	DeadLetterKey = "invitation:queue:dead"

	DefaultBlockTimeout = 5 * time.Second
)

// Delivery ist ein entnommener Job. raw ist der exakte Payload in der Processing-Liste,
// über den Ack und DeadLetter den Eintrag wiederfinden.
type Delivery struct {
	Job entity.DeliveryJob
	raw string
}

// DeliveryQueue ist eine dauerhafte FIFO-Warteschlange mit At-least-once-Semantik.
// Ein Job verlässt den Speicher erst durch Ack oder DeadLetter.
type DeliveryQueue interface {
	Push(ctx context.Context, job *entity.DeliveryJob) error
	// Pop blockiert, bis ein Job verfügbar ist oder ctx beendet wird.
	Pop(ctx context.Context) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	Touch(ctx context.Context, d *Delivery) error
	DeadLetter(ctx context.Context, d *Delivery, reason string, attempts int) error
	Reclaim(ctx context.Context, olderThan time.Duration) (int, error)
	Len(ctx context.Context) (int64, error)
	DeadLetters(ctx context.Context, offset, limit int64) ([]entity.DeadLetter, error)
}

// reclaimScript legt einen Job nur zurück, wenn er noch in der Processing-Liste liegt.
// Ein paralleles Ack gewinnt damit immer.
var reclaimScript = redis.NewScript(`
if redis.call('LREM', KEYS[1], 1, ARGV[1]) == 1 then
	redis.call('LPUSH', KEYS[2], ARGV[1])
	redis.call('HDEL', KEYS[3], ARGV[2])
	return 1
end
return 0
`)

type RedisDeliveryQueue struct {
	client       *redis.Client
	blockTimeout time.Duration
	now          func() time.Time
}

func NewRedisDeliveryQueue(client *redis.Client, blockTimeout time.Duration) *RedisDeliveryQueue {
	if blockTimeout <= 0 {
		blockTimeout = DefaultBlockTimeout
	}
	return &RedisDeliveryQueue{
		client:       client,
		blockTimeout: blockTimeout,
		now:          time.Now,
	}
}

// Push vergibt ID und EnqueuedAt, falls nicht gesetzt, und hängt den Job ans Ende.
func (q *RedisDeliveryQueue) Push(ctx context.Context, job *entity.DeliveryJob) error {
	if job.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("delivery queue: generate job id: %w", err)
		}
		job.ID = id.String()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = q.now().UTC()
	}

	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("delivery queue: encode job: %w", err)
	}
	if err := q.client.RPush(ctx, QueueKey, raw).Err(); err != nil {
		return fmt.Errorf("delivery queue push: %w", err)
	}
	return nil
}

func (q *RedisDeliveryQueue) Pop(ctx context.Context) (*Delivery, error) {
	for {
		raw, err := q.client.BLMove(ctx, QueueKey, ProcessingKey, "LEFT", "RIGHT", q.blockTimeout).Result()
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("delivery queue pop: %w", err)
		}

		var job entity.DeliveryJob
		if err := json.Unmarshal([]byte(raw), &job); err != nil || job.ID == "" {
			log.Error().Err(err).Str("payload", raw).Msg("Delivery queue: undecodable job moved to dead letters")
			q.deadLetterRaw(ctx, raw, "undecodable payload")
			continue
		}

		d := &Delivery{Job: job, raw: raw}
		if err := q.Touch(ctx, d); err != nil {
			// Job bleibt in processing und wird später zurückgeholt.
			return nil, err
		}
		return d, nil
	}
}

func (q *RedisDeliveryQueue) Ack(ctx context.Context, d *Delivery) error {
	var removed *redis.IntCmd
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.LRem(ctx, ProcessingKey, 1, d.raw)
		pipe.HDel(ctx, LeasesKey, d.Job.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delivery queue ack: %w", err)
	}
	if removed.Val() == 0 {
		log.Warn().Str("job_id", d.Job.ID).Msg("Delivery queue: acked job was no longer in processing")
	}
	return nil
}

// Touch verlängert die Lease, damit Reclaim einen aktiven Job nicht zurücklegt.
func (q *RedisDeliveryQueue) Touch(ctx context.Context, d *Delivery) error {
	if err := q.client.HSet(ctx, LeasesKey, d.Job.ID, q.now().UnixMilli()).Err(); err != nil {
		return fmt.Errorf("delivery queue touch: %w", err)
	}
	return nil
}

func (q *RedisDeliveryQueue) DeadLetter(ctx context.Context, d *Delivery, reason string, attempts int) error {
	entry, err := json.Marshal(entity.DeadLetter{
		Job:      d.Job,
		Reason:   reason,
		Attempts: attempts,
		FailedAt: q.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("delivery queue: encode dead letter: %w", err)
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, DeadLetterKey, entry)
		pipe.LRem(ctx, ProcessingKey, 1, d.raw)
		pipe.HDel(ctx, LeasesKey, d.Job.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delivery queue dead letter: %w", err)
	}
	return nil
}

// Reclaim legt Jobs zurück an den Kopf der Queue, deren Lease älter als olderThan ist.
// Jobs ohne Lease (Absturz zwischen BLMOVE und HSET) bekommen eine und kommen im nächsten Lauf dran.
func (q *RedisDeliveryQueue) Reclaim(ctx context.Context, olderThan time.Duration) (int, error) {
	raws, err := q.client.LRange(ctx, ProcessingKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("delivery queue reclaim: %w", err)
	}

	now := q.now()
	reclaimed := 0
	for _, raw := range raws {
		var job entity.DeliveryJob
		if err := json.Unmarshal([]byte(raw), &job); err != nil || job.ID == "" {
			q.deadLetterRaw(ctx, raw, "undecodable payload")
			continue
		}

		leaseRaw, err := q.client.HGet(ctx, LeasesKey, job.ID).Result()
		if errors.Is(err, redis.Nil) {
			if err := q.client.HSetNX(ctx, LeasesKey, job.ID, now.UnixMilli()).Err(); err != nil {
				return reclaimed, fmt.Errorf("delivery queue reclaim: stamp lease: %w", err)
			}
			continue
		}
		if err != nil {
			return reclaimed, fmt.Errorf("delivery queue reclaim: read lease: %w", err)
		}

		leaseMs, err := strconv.ParseInt(leaseRaw, 10, 64)
		if err == nil && now.Sub(time.UnixMilli(leaseMs)) < olderThan {
			continue
		}

		n, err := reclaimScript.Run(ctx, q.client, []string{ProcessingKey, QueueKey, LeasesKey}, raw, job.ID).Int()
		if err != nil {
			return reclaimed, fmt.Errorf("delivery queue reclaim: %w", err)
		}
		if n == 1 {
			reclaimed++
			log.Info().Str("job_id", job.ID).Str("recipient", job.Recipient).Msg("Delivery queue: unacknowledged job requeued")
		}
	}
	return reclaimed, nil
}

func (q *RedisDeliveryQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, QueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("delivery queue len: %w", err)
	}
	return n, nil
}

func (q *RedisDeliveryQueue) DeadLetters(ctx context.Context, offset, limit int64) ([]entity.DeadLetter, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []entity.DeadLetter{}, nil
	}

	raws, err := q.client.LRange(ctx, DeadLetterKey, offset, offset+limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("delivery queue dead letters: %w", err)
	}

	letters := make([]entity.DeadLetter, 0, len(raws))
	for _, raw := range raws {
		var dl entity.DeadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil {
			log.Warn().Err(err).Msg("Delivery queue: skipping undecodable dead letter")
			continue
		}
		letters = append(letters, dl)
	}
	return letters, nil
}

// deadLetterRaw parkt einen Payload, der sich nicht dekodieren lässt, mit dem Rohtext als Inhalt.
func (q *RedisDeliveryQueue) deadLetterRaw(ctx context.Context, raw, reason string) {
	entry, _ := json.Marshal(entity.DeadLetter{
		Job:      entity.DeliveryJob{Content: raw},
		Reason:   reason,
		FailedAt: q.now().UTC(),
	})
	_, err := q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, DeadLetterKey, entry)
		pipe.LRem(ctx, ProcessingKey, 1, raw)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Delivery queue: failed to park undecodable job")
	}
}
