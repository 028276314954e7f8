package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 5 * time.Second
	lockPollInterval = 25 * time.Millisecond
	releaseTimeout   = 2 * time.Second
)

// releaseScript deletes the lock only while it still holds our token, so an
// expired holder cannot free a lock taken over by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AdmissionLock serializes admissions for one subject and day across
// instances. Key format: admit:<subject_id>:<day>
type AdmissionLock struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAdmissionLock creates an AdmissionLock. The ttl bounds how long a crashed
// holder can block the key.
func NewAdmissionLock(client redis.Cmdable, ttl time.Duration) *AdmissionLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &AdmissionLock{client: client, ttl: ttl}
}

// Acquire polls until the key is free or ctx ends.
func (l *AdmissionLock) Acquire(ctx context.Context, subjectID, day string) (func(), error) {
	key := l.key(subjectID, day)
	token := uuid.NewString()

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("admission lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("admission lock %s: %w", key, ctx.Err())
		case <-ticker.C:
		}
	}
}

// release runs on its own context so a cancelled request still frees the key.
func (l *AdmissionLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	// On failure the TTL frees the key.
	_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}

func (l *AdmissionLock) key(subjectID, day string) string {
	return fmt.Sprintf("admit:%s:%s", subjectID, day)
}
