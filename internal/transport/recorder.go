package transport

import (
	"context"

	"github.com/thep200/github-gsa-feed/internal/model"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// Ledger stores one row per delivery attempt.
type Ledger interface {
	Create(ctx context.Context, entry model.SubmissionEntry) error
}

// Recorder wraps a sink and records every attempt. A ledger failure never fails the delivery.
type Recorder struct {
	Logger log.Logger
	next   Sink
	ledger Ledger
}

func NewRecorder(logger log.Logger, next Sink, ledger Ledger) *Recorder {
	return &Recorder{Logger: logger, next: next, ledger: ledger}
}

func (r *Recorder) Name() string {
	return r.next.Name()
}

func (r *Recorder) Send(ctx context.Context, p Payload) error {
	sendErr := r.next.Send(ctx, p)

	entry := model.SubmissionEntry{
		RunID:      log.RunID(ctx),
		Datasource: p.Datasource,
		FeedType:   p.FeedType,
		Sink:       r.next.Name(),
		Records:    p.Records,
		Bytes:      len(p.Data),
		Err:        sendErr,
	}
	if err := r.ledger.Create(ctx, entry); err != nil {
		r.Logger.Warn(ctx, "Could not record %s submission for %s: %v", p.FeedType, p.Datasource, err)
	}
	return sendErr
}

func (r *Recorder) Close() error {
	return r.next.Close()
}
