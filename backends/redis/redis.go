package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/ajiwo/dynstore/backends"
	"github.com/redis/go-redis/v9"
)

// DefaultPoolSize is used when Config.PoolSize is zero.
const DefaultPoolSize = 10

type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int

	// ConnErrorStrings overrides the lower-case substrings that classify an
	// error as a connectivity problem (see backends.MaybeConnError).
	ConnErrorStrings []string
}

type Backend struct {
	client   *redis.Client
	patterns []string
}

// checkAndSetScript implements compare-and-swap. An empty ARGV[1] means set-if-absent.
var checkAndSetScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if ARGV[1] == '' then
	if current then
		return 0
	end
elseif current ~= ARGV[1] then
	return 0
end
if ARGV[3] == '0' then
	redis.call('SET', KEYS[1], ARGV[2])
else
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
end
return 1
`)

// New connects to Redis and verifies the connection with PING.
func New(config Config) (*Backend, error) {
	if config.Addr == "" {
		return nil, NewInvalidConfigError("addr")
	}
	if config.PoolSize == 0 {
		config.PoolSize = DefaultPoolSize
	}
	patterns := config.ConnErrorStrings
	if patterns == nil {
		patterns = connErrorStrings
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, backends.MaybeConnError("redis:Ping", NewConnectionFailedError(config.Addr, err), patterns)
	}

	return &Backend{client: client, patterns: patterns}, nil
}

// GetClient exposes the underlying client, mainly for tests.
func (r *Backend) GetClient() *redis.Client {
	return r.client
}

func (r *Backend) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", backends.MaybeConnError("redis:Get", NewGetFailedError(key, err), r.patterns)
	}
	return val, nil
}

func (r *Backend) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return backends.MaybeConnError("redis:Set", NewSetFailedError(key, err), r.patterns)
	}
	return nil
}

// CheckAndSet runs the comparison and the write in one Lua script so that
// concurrent clients cannot interleave.
func (r *Backend) CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error) {
	expMs := strconv.FormatInt(expiration.Milliseconds(), 10)
	result, err := checkAndSetScript.Run(ctx, r.client, []string{key}, oldValue, newValue, expMs).Int64()
	if err != nil {
		return false, backends.MaybeConnError("redis:CheckAndSet", NewCheckAndSetFailedError(key, err), r.patterns)
	}
	return result == 1, nil
}

func (r *Backend) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return backends.MaybeConnError("redis:Delete", NewDeleteFailedError(key, err), r.patterns)
	}
	return nil
}

func (r *Backend) Close() error {
	if err := r.client.Close(); err != nil {
		return NewCloseFailedError(err)
	}
	return nil
}
