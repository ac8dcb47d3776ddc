package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// Reader is the part of *kafka.Reader the consumer needs.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Handler receives the value of a message and its headers.
type Handler func(ctx context.Context, value []byte, headers map[string]string) error

// Consumer hands every message of its topic to one handler.
type Consumer struct {
	Config  *cfg.Config
	Logger  log.Logger
	reader  Reader
	handler Handler
}

func NewConsumer(config *cfg.Config, logger log.Logger, topic, groupID string) (*Consumer, error) {
	if len(config.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("[ERROR][KAFKA] no kafka brokers configured")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        config.Kafka.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3,
		MaxBytes:       64e6,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		RetentionTime:  7 * 24 * time.Hour,
		CommitInterval: time.Second,
	})

	return NewConsumerWithReader(config, logger, reader), nil
}

func NewConsumerWithReader(config *cfg.Config, logger log.Logger, reader Reader) *Consumer {
	return &Consumer{
		Config: config,
		Logger: logger,
		reader: reader,
	}
}

// RegisterHandler sets the handler for every message, replacing any earlier one.
func (c *Consumer) RegisterHandler(handler Handler) {
	c.handler = handler
}

// Start consumes until ctx is done or the reader fails for good.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info(ctx, "Starting Kafka consumer")

	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.Logger.Error(ctx, "Error reading message: %v", err)
			continue
		}

		c.dispatch(ctx, message)
	}
}

func (c *Consumer) dispatch(ctx context.Context, message kafka.Message) {
	key := string(message.Key)
	if c.handler == nil {
		c.Logger.Warn(ctx, "No handler registered, dropping message with key: %s", key)
		return
	}

	headers := make(map[string]string, len(message.Headers))
	for _, h := range message.Headers {
		headers[h.Key] = string(h.Value)
	}

	if err := c.handler(ctx, message.Value, headers); err != nil {
		c.Logger.Error(ctx, "Error handling message with key %s: %v", key, err)
	} else {
		c.Logger.Info(ctx, "Successfully processed message with key: %s", key)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
