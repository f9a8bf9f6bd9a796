package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RedisImage is the image started for cache integration tests.
const RedisImage = "redis:7-alpine"

var sharedRedis shared[*redis.Client]

// GetTestRedis returns a client for the shared Redis container.
func GetTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return sharedRedis.get(t, "redis", startTestRedis)
}

func startTestRedis(ctx context.Context) (*redis.Client, error) {
	_, endpoint, err := startContainer(ctx, testcontainers.ContainerRequest{
		Image:        RedisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(30 * time.Second),
	})
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping test redis: %w", err)
	}
	return client, nil
}
