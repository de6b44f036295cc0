package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaWriter is the subset of *kafka.Writer used by kafkaSender.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaSender struct {
	topic  string
	writer kafkaWriter
}

func newKafkaPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Kafka == nil {
		return nil, fmt.Errorf("publisher %q missing kafka configuration", cfg.ID)
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: time.Duration(cfg.Kafka.TimeoutSeconds) * time.Second,
	}
	return newQueuePublisher(cfg.ID, TypeKafka, &kafkaSender{topic: cfg.Kafka.Topic, writer: w}, log), nil
}

// Send writes the event keyed by article id so updates to one article stay on one partition.
func (k *kafkaSender) Send(ctx context.Context, evt Event) error {
	payload, err := evt.payload()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	attrs := evt.attributes()
	headers := make([]kafka.Header, 0, len(attrs))
	for key, v := range attrs {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(evt.Article.ID),
		Value:   payload,
		Headers: headers,
		Time:    evt.CollectedAt,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to kafka topic %s: %w", k.topic, err)
	}
	return nil
}

func (k *kafkaSender) Close() error { return k.writer.Close() }
