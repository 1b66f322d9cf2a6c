package events

import "context"

// Publisher feeds persisted chat events to downstream consumers. Publishing
// is best-effort from the coordinator's point of view: failures are logged
// by the caller and never fail the originating send.
type Publisher interface {
	MessageSent(ctx context.Context, payload any) error
	Close() error
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that discards every event. Used when
// no brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) MessageSent(ctx context.Context, payload any) error { return nil }

func (noopPublisher) Close() error { return nil }
