package publishers

import (
	"context"
	"fmt"
)

// queuePublisher adapts a sender to the Publisher interface.
type queuePublisher struct {
	id     string
	typ    string
	sender sender
	log    Logger
}

func newQueuePublisher(id, typ string, s sender, log Logger) *queuePublisher {
	return &queuePublisher{id: id, typ: typ, sender: s, log: ensureLogger(log)}
}

func (q *queuePublisher) ID() string   { return q.id }
func (q *queuePublisher) Type() string { return q.typ }

func (q *queuePublisher) Publish(ctx context.Context, evt Event) error {
	if err := q.sender.Send(ctx, evt); err != nil {
		q.log.ErrorObj("publisher send failed", "publisher_error", map[string]any{
			"publisher_id":   q.id,
			"publisher_type": q.typ,
			"article_id":     evt.Article.ID,
			"error":          err.Error(),
		})
		return err
	}
	q.log.DebugObj("publisher delivered event", "publisher_delivery", map[string]any{
		"publisher_id":   q.id,
		"publisher_type": q.typ,
		"article_id":     evt.Article.ID,
	})
	return nil
}

func (q *queuePublisher) Close() error {
	if err := q.sender.Close(); err != nil {
		return fmt.Errorf("close %s publisher %s: %w", q.typ, q.id, err)
	}
	return nil
}
