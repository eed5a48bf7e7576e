package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"promo-gateway/core/promo/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava contadores de disparo em hashes do Redis:
//
//	<prefix>:total                 allowed/denied
//	<prefix>:minute:<YYYYMMDDhhmm> allowed/denied (expira em ttl)
//	<prefix>:category              <categoria>:allowed / <categoria>:denied
//	<prefix>:caller:<key>          allowed/denied (opcional, expira em ttl)
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl vale só para buckets e chaves por chamador; total e categoria são cumulativos.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackCallers bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ": "); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackCallers(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackCallers = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "promo:triggers",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if cat := strings.TrimSpace(ev.Category); cat != "" {
		pipe.HIncrBy(ctx, s.prefix+":category", cat+":"+field, 1)
	}

	if s.trackCallers {
		if k := strings.TrimSpace(string(ev.Caller)); k != "" {
			callerKey := s.prefix + ":caller:" + k
			pipe.HIncrBy(ctx, callerKey, field, 1)
			if s.ttl > 0 {
				pipe.Expire(ctx, callerKey, s.ttl)
			}
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// CategoryCounters lê os contadores de uma categoria.
func (s *RedisStatsStore) CategoryCounters(ctx context.Context, category string) (Counters, error) {
	vals, err := s.rdb.HMGet(ctx, s.prefix+":category", category+":allowed", category+":denied").Result()
	if err != nil {
		return Counters{}, err
	}
	return Counters{Allowed: toInt64(vals[0]), Denied: toInt64(vals[1])}, nil
}

func toInt64(v any) int64 {
	str, ok := v.(string)
	if !ok {
		return 0
	}
	var n int64
	_, _ = fmt.Sscan(str, &n)
	return n
}
