package db

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Namespace prefixes every key the gateway writes. The rate limiter and the
// link registry share one client, so their key families are minted here.
const Namespace = "paylink"

// Key builds a namespaced key: Key("link", id) -> "paylink:link:<id>".
func Key(parts ...string) string {
	return Namespace + ":" + strings.Join(parts, ":")
}

type RedisOpts struct {
	Addr        string        // "127.0.0.1:6379"
	Password    string        // optional
	DB          int           // default 0
	DialTimeout time.Duration // default 5s
}

// NewRedisClient connects and pings; rate limiting and the optional link
// registry share the returned client.
func NewRedisClient(opts RedisOpts) (*redis.Client, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}
