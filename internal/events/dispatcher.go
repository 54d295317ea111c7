package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"example.com/fitgptstudio/internal/observability"
)

// messageWriter is satisfied by the *kafka.Writer from NewWriter.
type messageWriter interface {
	WriteMessages(context.Context, ...kafka.Message) error
}

// Publisher accepts chat events without blocking the caller.
type Publisher interface {
	Publish(evt ChatMessageAppended) bool
}

// NoopPublisher discards events; used when no brokers are configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(ChatMessageAppended) bool { return true }

// DefaultQueueSize bounds events buffered ahead of Kafka.
const DefaultQueueSize = 256

// Dispatcher buffers events and delivers them to Kafka from one goroutine.
// A full buffer drops the event rather than stalling the chat reply.
type Dispatcher struct {
	writer           messageWriter
	topic            string
	logger           *logrus.Entry
	writeTimeout     time.Duration
	queue            chan ChatMessageAppended
	shutdownComplete chan struct{}
}

// NewDispatcher constructs a Dispatcher. topic labels metrics and logs and
// should match the topic writer is bound to.
func NewDispatcher(writer messageWriter, topic string, queueSize int, logger *logrus.Entry) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{
		writer:           writer,
		topic:            topic,
		logger:           logger.WithField("topic", topic),
		writeTimeout:     5 * time.Second,
		queue:            make(chan ChatMessageAppended, queueSize),
		shutdownComplete: make(chan struct{}),
	}
}

// Publish enqueues evt and reports false when the buffer is full.
func (d *Dispatcher) Publish(evt ChatMessageAppended) bool {
	select {
	case d.queue <- evt:
		return true
	default:
		observability.RecordPublishError(d.topic)
		d.logger.WithField("session_id", evt.SessionID).Warn("chat event queue full, dropping event")
		return false
	}
}

// Start delivers queued events until ctx is cancelled, then flushes what is
// already buffered. It should be called in a goroutine.
func (d *Dispatcher) Start(ctx context.Context) {
	defer close(d.shutdownComplete)

	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case evt := <-d.queue:
			d.deliver(ctx, evt)
		}
	}
}

// Wait waits until the dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) drain() {
	for {
		select {
		case evt := <-d.queue:
			d.deliver(context.Background(), evt)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, evt ChatMessageAppended) {
	msg, err := encode(evt)
	if err == nil {
		writeCtx, cancel := context.WithTimeout(ctx, d.writeTimeout)
		err = d.writer.WriteMessages(writeCtx, msg)
		cancel()
	}
	if err != nil {
		observability.RecordPublishError(d.topic)
		d.logger.WithError(err).WithField("session_id", evt.SessionID).Error("failed to publish chat event")
	}
}

func encode(evt ChatMessageAppended) (kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal chat event: %w", err)
	}
	return kafka.Message{
		Key:     []byte(evt.SessionID),
		Value:   payload,
		Time:    evt.OccurredAt,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(EventTypeChatMessageAppended)}},
	}, nil
}
