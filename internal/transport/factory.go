package transport

import (
	"os"

	"emperror.dev/errors"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/internal/model"
	"github.com/thep200/github-gsa-feed/pkg/db"
	"github.com/thep200/github-gsa-feed/pkg/kafka"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

var ErrUnsupportedOutput = errors.New("transport: unsupported output mode")

// FactorySink builds the sink for mode. With the ledger enabled, every delivery is also recorded.
func FactorySink(mode string, logger log.Logger, config *cfg.Config, mysql *db.Mysql) (Sink, error) {
	var sink Sink
	switch mode {
	case cfg.OutputGsa:
		sink = NewFormSink(logger, config)
	case cfg.OutputFile:
		sink = NewFileSink(logger, config.Output.Dir)
	case cfg.OutputConsole:
		sink = NewConsoleSink(logger, os.Stdout)
	case cfg.OutputKafka:
		producer, err := kafka.NewProducer(config, logger, config.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		sink = NewKafkaSink(logger, producer)
	default:
		return nil, errors.WithDetails(ErrUnsupportedOutput, "mode", mode)
	}

	if mysql == nil || !mysql.Enabled() {
		return sink, nil
	}

	submission, err := model.NewSubmission(config, logger, mysql)
	if err != nil {
		return nil, err
	}
	if err := mysql.Migrate(submission); err != nil {
		return nil, errors.Wrap(err, "migrate submission ledger")
	}
	return NewRecorder(logger, sink, submission), nil
}
