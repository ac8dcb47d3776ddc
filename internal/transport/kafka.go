package transport

import (
	"context"

	"emperror.dev/errors"
	"github.com/dustin/go-humanize"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/kafka"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// Message headers read back by the relay consumer.
const (
	HeaderDatasource = "datasource"
	HeaderFeedType   = "feedtype"
)

// KafkaSink publishes documents keyed by datasource, so one datasource keeps its order on one partition.
type KafkaSink struct {
	Logger   log.Logger
	producer *kafka.Producer
}

func NewKafkaSink(logger log.Logger, producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{Logger: logger, producer: producer}
}

func (s *KafkaSink) Name() string {
	return cfg.OutputKafka
}

func (s *KafkaSink) Send(ctx context.Context, p Payload) error {
	headers := map[string]string{
		HeaderDatasource: p.Datasource,
		HeaderFeedType:   p.FeedType,
	}
	if err := s.producer.Publish(ctx, p.Datasource, p.Data, headers); err != nil {
		return errors.Wrapf(err, "publish %s feed for %s", p.FeedType, p.Datasource)
	}

	s.Logger.Info(ctx, "Feed for datasource '%s' and feed type '%s' published (%s)",
		p.Datasource, p.FeedType, humanize.Bytes(uint64(len(p.Data))))
	return nil
}

func (s *KafkaSink) Close() error {
	return s.producer.Close()
}

// PayloadFromMessage rebuilds a payload from a message published by KafkaSink.
func PayloadFromMessage(value []byte, headers map[string]string) (Payload, error) {
	p := Payload{
		Datasource: headers[HeaderDatasource],
		FeedType:   headers[HeaderFeedType],
		Data:       value,
	}
	if p.Datasource == "" || p.FeedType == "" {
		return Payload{}, errors.NewWithDetails("transport: message lacks feed headers",
			"datasource", p.Datasource, "feedtype", p.FeedType)
	}
	if len(value) == 0 {
		return Payload{}, errors.New("transport: empty feed message")
	}
	return p, nil
}
