package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/models"
	srvErrors "github.com/cataloro/cataloro-probe/pkg/errors"
)

func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if _, err := c.Do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitReady polls /health with exponential backoff until the deployment answers
// or maxWait elapses. Preview deployments are often still starting when a run begins.
// 4xx answers other than 429 stop the wait at once: the URL is wrong, not starting.
func (c *Client) WaitReady(ctx context.Context, maxWait time.Duration) (*models.Health, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	log := zap.S().Named("client")

	h, err := backoff.Retry(ctx, func() (*models.Health, error) {
		h, err := c.Health(ctx)
		if err == nil {
			return h, nil
		}
		if status := srvErrors.StatusCode(err); status >= 400 && status < 500 && status != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(maxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Infow("backend not ready yet", "url", c.baseURL, "error", err, "retry_in", next)
		}),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("backend %s not ready after %s: %w", c.baseURL, maxWait, err)
	}
	return h, nil
}
