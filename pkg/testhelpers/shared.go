package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// shared holds one lazily started test resource per test binary.
type shared[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (s *shared[T]) get(t *testing.T, what string, setup func(context.Context) (T, error)) T {
	t.Helper()

	if testing.Short() {
		t.Skipf("Skipping %s integration test in short mode (requires Docker)", what)
	}

	s.once.Do(func() {
		s.val, s.err = setup(context.Background())
	})
	if s.err != nil {
		t.Fatalf("Failed to set up test %s: %v", what, s.err)
	}
	return s.val
}

// startContainer starts req and returns the host:port of its first exposed port.
func startContainer(ctx context.Context, req testcontainers.ContainerRequest) (testcontainers.Container, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("start %s container: %w", req.Image, err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return nil, "", fmt.Errorf("resolve %s endpoint: %w", req.Image, err)
	}
	return container, endpoint, nil
}
