package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/twmb/murmur3"
)

// ErrCacheMiss is returned by a KV when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// KV is the key/value store behind Cache.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Cache memoizes interpretations by prompt version and input text. Store
// failures are logged and the call falls through to the next interpreter.
type Cache struct {
	next    Interpreter
	kv      KV
	ttl     time.Duration
	version string
	logger  zerolog.Logger
}

func NewCache(next Interpreter, kv KV, ttl time.Duration, promptVersion string, logger zerolog.Logger) *Cache {
	return &Cache{next: next, kv: kv, ttl: ttl, version: promptVersion, logger: logger}
}

// CacheKey is insight:{prompt version}:{murmur3-64 of text, hex}.
func CacheKey(promptVersion, text string) string {
	h := murmur3.New64()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("insight:%s:%016x", promptVersion, h.Sum64())
}

func (c *Cache) Interpret(ctx context.Context, text string) (string, error) {
	key := CacheKey(c.version, text)

	cached, err := c.kv.Get(ctx, key)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, ErrCacheMiss):
		c.logger.Warn().Err(err).Str("key", key).Msg("insight cache read failed")
	}

	out, err := c.next.Interpret(ctx, text)
	if err != nil {
		return "", err
	}
	if err := c.kv.Set(ctx, key, out, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("insight cache write failed")
	}
	return out, nil
}
