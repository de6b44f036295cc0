package publishers

import "context"

// Publisher sends events to a downstream sink (SQS, Kafka, HTTP, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// sender is the transport half of a queue-style publisher.
type sender interface {
	Send(ctx context.Context, evt Event) error
	Close() error
}
