package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the publishers use.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RecordPublisher publishes uploaded record batches.
type RecordPublisher struct {
	writer messageWriter
}

// NewRecordPublisher constructs a publisher for the records topic.
func NewRecordPublisher(k *Kafka, topic string) *RecordPublisher {
	return &RecordPublisher{writer: k.NewWriter(topic)}
}

// PublishBatch emits a batch keyed by its id.
func (p *RecordPublisher) PublishBatch(ctx context.Context, msg RecordBatchMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("record publisher: marshal message: %w", err)
	}
	record := kafka.Message{
		Key:   msg.BatchID[:],
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, record); err != nil {
		return fmt.Errorf("record publisher: write message: %w", err)
	}
	return nil
}

// Close closes the publisher.
func (p *RecordPublisher) Close() error {
	return p.writer.Close()
}

// DeadLetterPublisher parks messages that failed processing.
type DeadLetterPublisher struct {
	writer messageWriter
}

// NewDeadLetterPublisher constructs a publisher for the dead-letter topic.
func NewDeadLetterPublisher(k *Kafka, topic string) *DeadLetterPublisher {
	return &DeadLetterPublisher{writer: k.NewWriter(topic)}
}

// Publish wraps the original message with the failure reason.
func (p *DeadLetterPublisher) Publish(ctx context.Context, original kafka.Message, cause error) error {
	msg := DeadLetterMessage{
		Topic:     original.Topic,
		Partition: original.Partition,
		Offset:    original.Offset,
		Key:       original.Key,
		Payload:   original.Value,
		FailedAt:  time.Now().UTC(),
	}
	if cause != nil {
		msg.Error = cause.Error()
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("dead letter publisher: marshal message: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: original.Key, Value: value, Time: msg.FailedAt}); err != nil {
		return fmt.Errorf("dead letter publisher: write message: %w", err)
	}
	return nil
}

// Close closes the publisher.
func (p *DeadLetterPublisher) Close() error {
	return p.writer.Close()
}
