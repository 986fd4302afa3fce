package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisPool erstellt einen Redis-Client und prüft die Erreichbarkeit mit einem PING.
// Der Caller schließt den Client mit client.Close().
//
// ReadTimeout gilt nicht für blockierende Befehle wie BLMOVE: go-redis verlängert das
// Deadline um das Block-Timeout des Befehls.
func RedisPool(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MaxIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Str("addr", addr).Msg("Fehler beim Erstellen des Redis-Pool")
		_ = rdb.Close()
		return nil, fmt.Errorf("Verbindung zu Redis nicht möglich: %w", err)
	}

	return rdb, nil
}
