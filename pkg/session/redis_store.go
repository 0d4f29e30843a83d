package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "session:"
	userSetKeyPrefix = "user_sessions:"

	// scanBatch is the COUNT hint for the sweep's SCAN.
	scanBatch = 200
)

// RedisStore implements Store on Redis. A session record lives under
// "session:<id>" with a native TTL; the per-user index is a set under
// "user_sessions:<user_id>". Redis expires records by itself, so the
// sweep's main job here is pruning set entries left dangling.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(ErrInvalidRecord, err)
	}

	ttl := time.Until(sess.ExpiresAt).Round(time.Second)
	if ttl <= 0 {
		return ErrInvalidRecord
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sess.ID, data, ttl).Err(); err != nil {
		return err
	}
	return s.client.SAdd(ctx, userSetKeyPrefix+sess.UserID.String(), sess.ID).Err()
}

// Get implements Store. Corrupt records are purged and reported as
// absent rather than surfacing a parse error to the request path.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		_ = s.client.Del(ctx, sessionKeyPrefix+id).Err()
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string, userID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return err
	}
	return s.client.SRem(ctx, userSetKeyPrefix+userID, id).Err()
}

// UserSessions implements Store. Set entries whose records have expired
// are pruned on the way through.
func (s *RedisStore) UserSessions(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := s.client.SMembers(ctx, userSetKeyPrefix+userID).Result()
	if err != nil {
		return nil, err
	}

	sessions := make([]*Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				_ = s.client.SRem(ctx, userSetKeyPrefix+userID, id).Err()
				continue
			}
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// DeleteExpired implements Store. Scans the session keyspace, removing
// records whose expiry has passed (covering clock-skewed writes Redis
// has not reclaimed yet) and purging unparsable records, then repairs
// the per-user sets: Redis reclaims a record via its native TTL
// without touching the set, so members with no backing record would
// otherwise dangle until that user's next UserSessions call.
func (s *RedisStore) DeleteExpired(ctx context.Context) (int, error) {
	count, err := s.sweepRecords(ctx)
	if err != nil {
		return count, err
	}
	return count, s.sweepUserSets(ctx)
}

func (s *RedisStore) sweepRecords(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	now := time.Now()

	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return count, err
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if err != nil {
				// Expired between SCAN and GET; nothing to do.
				continue
			}

			var sess Session
			if err := json.Unmarshal(data, &sess); err != nil {
				_ = s.client.Del(ctx, key).Err()
				count++
				continue
			}

			if now.After(sess.ExpiresAt) {
				_ = s.client.Del(ctx, key).Err()
				_ = s.client.SRem(ctx, userSetKeyPrefix+sess.UserID.String(), sess.ID).Err()
				count++
			}
		}

		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

// sweepUserSets removes set members whose session record is gone.
func (s *RedisStore) sweepUserSets(ctx context.Context) error {
	var cursor uint64

	for {
		keys, next, err := s.client.Scan(ctx, cursor, userSetKeyPrefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}

		for _, key := range keys {
			ids, err := s.client.SMembers(ctx, key).Result()
			if err != nil {
				continue
			}
			for _, id := range ids {
				n, err := s.client.Exists(ctx, sessionKeyPrefix+id).Result()
				if err != nil || n > 0 {
					continue
				}
				_ = s.client.SRem(ctx, key, id).Err()
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
