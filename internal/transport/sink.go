// Package transport delivers serialized feed documents: to the search appliance feed form,
// to disk, to the console or to a Kafka topic for later relay.
package transport

import (
	"context"

	"github.com/thep200/github-gsa-feed/internal/feed"
)

// Payload is everything a sink needs from a document.
type Payload struct {
	Datasource string
	FeedType   string
	Records    int
	Data       []byte
}

func NewPayload(doc *feed.Document, pretty bool) (Payload, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = doc.SerializeIndent()
	} else {
		data, err = doc.Serialize()
	}
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Datasource: doc.Datasource(),
		FeedType:   doc.FeedType().String(),
		Records:    doc.Len(),
		Data:       data,
	}, nil
}

type Sink interface {
	Name() string
	Send(ctx context.Context, p Payload) error
	Close() error
}
