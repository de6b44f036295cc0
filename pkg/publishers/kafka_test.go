package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/Adda-Baaj/wanreader/internal/domain"
)

type fakeKafkaWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeKafkaWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeKafkaWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSenderWritesKeyedMessage(t *testing.T) {
	w := &fakeKafkaWriter{}
	pub := newQueuePublisher("stream", TypeKafka, &kafkaSender{topic: "articles", writer: w}, nil)

	evt := NewEvent("wan-top", "Pinned", domain.Article{ID: "wanandroid:7", Title: "Compose"})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "wanandroid:7" {
		t.Fatalf("key = %q", msg.Key)
	}
	var decoded Event
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("value is not an event: %v", err)
	}
	if decoded.ProviderID != "wan-top" || decoded.Article.Title != "Compose" {
		t.Fatalf("unexpected payload %+v", decoded)
	}

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["provider_id"] != "wan-top" || headers["article_id"] != "wanandroid:7" {
		t.Fatalf("unexpected headers %v", headers)
	}

	if err := pub.Close(); err != nil || !w.closed {
		t.Fatalf("Close: %v closed=%v", err, w.closed)
	}
}

func TestKafkaSenderWrapsWriteErrors(t *testing.T) {
	boom := errors.New("leader not available")
	s := &kafkaSender{topic: "articles", writer: &fakeKafkaWriter{err: boom}}

	if err := s.Send(context.Background(), Event{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}
