package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/segmentio/kafka-go"
)

const eventTypeWorkoutCompleted = "workout.completed"

type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes workout events to a single topic, partitioned by
// user so one user's events stay ordered.
type KafkaPublisher struct {
	topic string

	mu      sync.Mutex
	writer  messageWriter
	newFunc func() messageWriter
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
// The underlying writer is created lazily on first publish.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		topic: topic,
		newFunc: func() messageWriter {
			return &kafka.Writer{
				Addr:         kafka.TCP(brokers...),
				Topic:        topic,
				RequiredAcks: kafka.RequireAll,
				Compression:  kafka.Snappy,
				Async:        false,
			}
		},
	}
}

// PublishWorkoutCompleted implements Publisher.
func (p *KafkaPublisher) PublishWorkoutCompleted(ctx context.Context, event WorkoutCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeWorkoutCompleted)},
			{Key: "user_id", Value: []byte(event.UserID)},
		},
	}
	return p.acquireWriter().WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) acquireWriter() messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		p.writer = p.newFunc()
	}
	return p.writer
}

// Close releases the writer if one was created.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
