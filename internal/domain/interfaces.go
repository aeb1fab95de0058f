package domain

import "context"

// EventPublisher decouples services from the concrete event bus.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// RateLimitStore answers whether a caller identified by key may proceed.
type RateLimitStore interface {
	Allow(ctx context.Context, key string) (bool, error)
}
