package store

import (
	"context"
	"time"
)

// latencyBackend delays every call, standing in for a remote API.
type latencyBackend struct {
	Backend
	delay time.Duration
}

// WithLatency wraps b so each operation first waits delay or until ctx is done.
func WithLatency(b Backend, delay time.Duration) Backend {
	if delay <= 0 {
		return b
	}
	return &latencyBackend{Backend: b, delay: delay}
}

func (l *latencyBackend) wait(ctx context.Context) error {
	t := time.NewTimer(l.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (l *latencyBackend) Load(ctx context.Context, key string) ([]byte, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	return l.Backend.Load(ctx, key)
}

func (l *latencyBackend) Save(ctx context.Context, key string, data []byte) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	return l.Backend.Save(ctx, key, data)
}

func (l *latencyBackend) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	return l.Backend.Update(ctx, key, fn)
}

func (l *latencyBackend) Delete(ctx context.Context, key string) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	return l.Backend.Delete(ctx, key)
}
