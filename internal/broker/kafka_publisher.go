package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher implements EventPublisher on top of kafka-go.
// Events go to "<prefix>.<event type>" keyed by record id so one record's
// events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	prefix string
}

func NewKafkaPublisher(brokers []string, topicPrefix string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		WriteTimeout:           5 * time.Second,
	}
	return &KafkaPublisher{writer: writer, prefix: topicPrefix}
}

// Topic returns the topic an event type is written to
func (k *KafkaPublisher) Topic(eventType string) string {
	if k.prefix == "" {
		return eventType
	}
	return k.prefix + "." + eventType
}

func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: k.Topic(event.Type),
		Key:   []byte(event.Key),
		Value: data,
		Time:  event.OccurredAt,
	})
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
