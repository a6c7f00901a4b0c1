package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
)

// ErrTurnInFlight means another chat turn is already streaming for the
// same project. Turns are strictly sequential per conversation.
var ErrTurnInFlight = errors.New("a chat turn is already in flight for this project")

// TurnLock serializes chat turns per project. Backed by redis SET NX
// with a TTL so a crashed process cannot wedge a conversation forever.
type TurnLock interface {
	// Acquire takes the project's turn lock and returns a release
	// function. ErrTurnInFlight when the lock is held.
	Acquire(ctx context.Context, projectID uuid.UUID) (func(), error)
	Close() error
}

type turnLock struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewTurnLock(log *logger.Logger) (TurnLock, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &turnLock{
		log: log.With("service", "TurnLock"),
		rdb: rdb,
		ttl: 5 * time.Minute,
	}, nil
}

func (l *turnLock) Acquire(ctx context.Context, projectID uuid.UUID) (func(), error) {
	key := "chat-turn:" + projectID.String()
	ok, err := l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	if !ok {
		return nil, ErrTurnInFlight
	}
	release := func() {
		// Release must not depend on the (possibly canceled) request
		// context: a client disconnect still frees the conversation.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.rdb.Del(ctx, key).Err(); err != nil {
			l.log.Warn("Failed to release turn lock", "projectID", projectID, "error", err)
		}
	}
	return release, nil
}

func (l *turnLock) Close() error {
	return l.rdb.Close()
}
