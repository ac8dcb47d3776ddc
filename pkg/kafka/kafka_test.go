package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	messages []kafka.Message
	closed   bool
}

func (r *fakeReader) ReadMessage(_ context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	m := r.messages[0]
	r.messages = r.messages[1:]
	return m, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

func testLogger() log.Logger {
	return log.NewCslLoggerWithWriter(io.Discard, "debug")
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(&cfg.Config{}, testLogger(), w)

	err := p.Publish(context.Background(), "github", []byte("<gsafeed/>"), map[string]string{"feedtype": "incremental"})

	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "github", string(w.messages[0].Key))
	assert.Equal(t, "<gsafeed/>", string(w.messages[0].Value))
	require.Len(t, w.messages[0].Headers, 1)
	assert.Equal(t, "feedtype", w.messages[0].Headers[0].Key)
	assert.Equal(t, "incremental", string(w.messages[0].Headers[0].Value))
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(&cfg.Config{}, testLogger(), w)

	err := p.Publish(context.Background(), "k", nil, nil)

	assert.ErrorContains(t, err, "broker down")
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(&cfg.Config{}, testLogger(), "topic")
	assert.Error(t, err)

	_, err = NewConsumer(&cfg.Config{}, testLogger(), "topic", "group")
	assert.Error(t, err)
}

func TestConsumer_Start(t *testing.T) {
	r := &fakeReader{messages: []kafka.Message{
		{Key: []byte("feed"), Value: []byte("a"), Headers: []kafka.Header{{Key: "datasource", Value: []byte("github")}}},
		{Key: []byte("other"), Value: []byte("b")},
		{Key: []byte("unknown"), Value: []byte("c")},
	}}
	c := NewConsumerWithReader(&cfg.Config{}, testLogger(), r)

	var got []string
	var datasource string
	c.RegisterHandler(func(_ context.Context, value []byte, headers map[string]string) error {
		got = append(got, string(value))
		if v, ok := headers["datasource"]; ok {
			datasource = v
		}
		if string(value) == "b" {
			return errors.New("handler errors do not stop the consumer")
		}
		return nil
	})

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, "github", datasource)

	require.NoError(t, c.Close())
	assert.True(t, r.closed)
}
