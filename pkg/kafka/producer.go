package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// Writer is the part of *kafka.Writer the producer needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes serialized feed documents.
type Producer struct {
	Config *cfg.Config
	Logger log.Logger
	writer Writer
}

func NewProducer(config *cfg.Config, logger log.Logger, topic string) (*Producer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("[ERROR][KAFKA] no kafka brokers configured")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Kafka.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		// Feed documents are large; a single message per document
		BatchBytes: 64 << 20,
	}

	return NewProducerWithWriter(config, logger, writer), nil
}

func NewProducerWithWriter(config *cfg.Config, logger log.Logger, writer Writer) *Producer {
	return &Producer{
		Config: config,
		Logger: logger,
		writer: writer,
	}
}

// Publish sends value under key. Headers travel with the message unchanged.
func (p *Producer) Publish(ctx context.Context, key string, value []byte, headers map[string]string) error {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.Logger.Debug(ctx, "Published %d bytes with key %s", len(value), key)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
