package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/ai-readiness/internal/domain/ai"
)

// Options are the per-call defaults applied to every completion
type Options struct {
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int
}

// Service wraps a provider client with a call timeout, defaults and logging.
// It satisfies ai.Client itself so callers do not care which provider runs.
type Service struct {
	client ai.Client
	opts   Options
	log    *zap.Logger
}

func NewService(client ai.Client, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, opts: opts, log: log}
}

func (s *Service) Name() string { return s.client.Name() }

// Complete sends one request; the timeout covers the whole provider call.
func (s *Service) Complete(ctx context.Context, req ai.Request) (string, error) {
	if req.Temperature == 0 {
		req.Temperature = s.opts.Temperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = s.opts.MaxTokens
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.client.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("provider timed out after %s: %w", s.opts.Timeout, err)
		}
		s.log.Warn("ai completion failed",
			zap.String("provider", s.client.Name()),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return "", err
	}
	s.log.Debug("ai completion",
		zap.String("provider", s.client.Name()),
		zap.Duration("duration", elapsed),
		zap.Int("reply_bytes", len(text)))
	return text, nil
}
