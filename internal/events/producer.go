package events

import (
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// DefaultBatchTimeout keeps chat events close to real time.
const DefaultBatchTimeout = 10 * time.Millisecond

// WriterConfig describes the chat event writer.
type WriterConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// NewWriter returns a writer bound to cfg.Topic. Messages are hashed by key,
// so every event of one session lands on the same partition in order.
// Broker errors are reported through logger.
func NewWriter(cfg WriterConfig, logger *logrus.Entry) *kafka.Writer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Compression:            kafka.Snappy,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		ErrorLogger:            kafka.LoggerFunc(logger.WithField("topic", cfg.Topic).Errorf),
	}
}
