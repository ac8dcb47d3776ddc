package feed

import (
	"strings"

	"emperror.dev/errors"
)

var ErrNoIdentity = errors.New("feed: record has neither url nor displayurl")

type Meta struct {
	Key   MetaKey
	Value string
}

// Record is one indexable unit. Records are values: once added to a Document they do not change.
type Record struct {
	URL        string
	DisplayURL string
	MimeType   string
	Content    string
	HasContent bool
	Metadata   []Meta
}

// NewRecord builds a record identified by url, or by displayURL when url is blank.
func NewRecord(url, displayURL, mimeType string) (Record, error) {
	url = strings.TrimSpace(url)
	displayURL = strings.TrimSpace(displayURL)

	if url == "" {
		url = displayURL
	}
	if url == "" {
		return Record{}, ErrNoIdentity
	}
	if mimeType == "" {
		mimeType = MimePlain
	}
	return Record{URL: url, DisplayURL: displayURL, MimeType: mimeType}, nil
}

func (r Record) WithContent(content string) Record {
	r.Content = content
	r.HasContent = true
	return r
}

// WithMeta appends key=value unless either side is blank: the receiving system rejects empty metas.
func (r Record) WithMeta(key MetaKey, value string) Record {
	if strings.TrimSpace(key.String()) == "" || strings.TrimSpace(value) == "" {
		return r
	}
	metadata := make([]Meta, len(r.Metadata), len(r.Metadata)+1)
	copy(metadata, r.Metadata)
	r.Metadata = append(metadata, Meta{Key: key, Value: value})
	return r
}

// Meta returns the value of key and whether the record carries it.
func (r Record) Meta(key MetaKey) (string, bool) {
	for _, m := range r.Metadata {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}
