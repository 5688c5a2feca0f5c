// Package transcript keeps an append-only Redis log of chat exchanges.
// Nothing on the request path reads it back.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	keyPrefix = "chat_transcript:"

	// DefaultMaxEntries bounds each flow's list when no limit is configured.
	DefaultMaxEntries = 500
)

// Entry is one user message and the reply it received.
type Entry struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type Store struct {
	redis      *redis.Client
	tracer     trace.Tracer
	maxEntries int64
}

// NewStore returns nil when redisClient is nil; a nil Store accepts every
// call and does nothing.
func NewStore(redisClient *redis.Client, maxEntries int) *Store {
	if redisClient == nil {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		redis:      redisClient,
		tracer:     otel.Tracer("chatlookup.internal.transcript"),
		maxEntries: int64(maxEntries),
	}
}

func Key(flow string) string {
	return keyPrefix + flow
}

func (s *Store) Append(ctx context.Context, flow string, entry Entry) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if flow == "" {
		return errors.New("transcript: flow required")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("transcript: marshal entry: %w", err)
	}

	ctx, span := s.tracer.Start(ctx, "transcript.append")
	defer span.End()

	key := Key(flow)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -s.maxEntries, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("transcript: append: %w", err)
	}
	return nil
}

// List returns the most recent limit entries of flow, oldest first. A limit
// of zero or less returns everything kept.
func (s *Store) List(ctx context.Context, flow string, limit int64) ([]Entry, error) {
	if s == nil || s.redis == nil {
		return nil, nil
	}
	if flow == "" {
		return nil, errors.New("transcript: flow required")
	}

	ctx, span := s.tracer.Start(ctx, "transcript.list")
	defer span.End()

	start := int64(0)
	if limit > 0 {
		start = -limit
	}
	raw, err := s.redis.LRange(ctx, Key(flow), start, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Entry{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("transcript: list: %w", err)
	}

	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
