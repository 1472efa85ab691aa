// AngelaMos | 2026
// connect.go

package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	probeTimeout = 5 * time.Second
	firstBackoff = 250 * time.Millisecond
	maxBackoff   = 5 * time.Second
)

// waitReady pings until the dependency answers or attempts run out,
// doubling the pause between tries.
func waitReady(
	ctx context.Context,
	name string,
	attempts int,
	ping func(context.Context) error,
) error {
	attempts = max(attempts, 1)
	backoff := firstBackoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = probe(ctx, ping); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		slog.Default().Warn("dependency not ready",
			"dependency", name,
			"attempt", attempt,
			"retry_in", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", name, ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}

	return fmt.Errorf("%s unreachable after %d attempts: %w", name, attempts, err)
}

func probe(ctx context.Context, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return ping(ctx)
}
