package state

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/kestrelworks/studio-announce/internal/domain"
)

const (
	sentLogKey = "announce:sent"

	// fieldSeparator joins class ID and offset into one hash field. Offsets
	// are decimal digits, so splitting on the last separator is unambiguous
	// even when a class title contains the separator itself.
	fieldSeparator = "|"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Load reads the whole sent log from a single hash. A missing key is an
// empty log.
func (s *RedisStore) Load(ctx context.Context) (domain.SentLog, error) {
	fields, err := s.client.HGetAll(ctx, sentLogKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load sent log: %w", err)
	}

	log := make(domain.SentLog)
	for field, sentAt := range fields {
		sep := strings.LastIndex(field, fieldSeparator)
		if sep <= 0 || sep == len(field)-1 {
			slog.WarnContext(ctx, "skipping malformed sent-log field",
				slog.String("field", field))
			continue
		}
		classID, offsetKey := field[:sep], field[sep+1:]

		offsets, ok := log[classID]
		if !ok {
			offsets = make(map[string]string)
			log[classID] = offsets
		}
		offsets[offsetKey] = sentAt
	}

	return log, nil
}

// Save writes every recorded delivery into the hash. The log only grows, so
// re-writing existing fields is harmless and no deletion pass is needed.
func (s *RedisStore) Save(ctx context.Context, log domain.SentLog) error {
	if len(log) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for classID, offsets := range log {
		for offsetKey, sentAt := range offsets {
			pipe.HSet(ctx, sentLogKey, classID+fieldSeparator+offsetKey, sentAt)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save sent log: %w", err)
	}

	return nil
}
