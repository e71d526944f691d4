package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyNamespacing(t *testing.T) {
	assert.Equal(t, "paylink:link:abc", Key("link", "abc"))
	assert.Equal(t, "paylink:rl:ip", Key("rl", "ip"))
}

func TestNewRedisClientPingsOnConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(RedisOpts{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, rdb.Set(context.Background(), Key("test"), 1, 0).Err())
	assert.True(t, mr.Exists("paylink:test"))
}

func TestNewRedisClientRejectsDeadAddr(t *testing.T) {
	_, err := NewRedisClient(RedisOpts{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
