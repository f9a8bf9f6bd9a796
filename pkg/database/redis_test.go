package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-profiler/pkg/config"
)

func TestNewRedisClient_DisabledWithoutHost(t *testing.T) {
	client, err := NewRedisClient(context.Background(), &config.RedisConfig{Port: 6379})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestRedisOptions(t *testing.T) {
	opts := redisOptions(&config.RedisConfig{Host: "cache", Port: 6380, Password: "pw", DB: 2})

	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "ekaya-profiler", opts.ClientName)
	assert.Contains(t, opts.Addr, ":6380")
	assert.Positive(t, opts.DialTimeout)
}
