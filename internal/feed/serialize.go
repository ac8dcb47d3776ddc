package feed

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"emperror.dev/errors"
)

const (
	Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`
	Doctype     = `<!DOCTYPE gsafeed PUBLIC "-//Google//DTD GSA Feeds//EN" "">`
)

type xmlFeed struct {
	XMLName xml.Name  `xml:"gsafeed"`
	Header  xmlHeader `xml:"header"`
	Group   xmlGroup  `xml:"group"`
}

type xmlHeader struct {
	Datasource string `xml:"datasource"`
	FeedType   string `xml:"feedtype"`
}

type xmlGroup struct {
	Records []xmlRecord `xml:"record"`
}

// Attribute order on the wire follows field order: url, displayurl, mimetype.
type xmlRecord struct {
	URL        string      `xml:"url,attr"`
	DisplayURL string      `xml:"displayurl,attr,omitempty"`
	MimeType   string      `xml:"mimetype,attr"`
	Content    *xmlContent `xml:"content,omitempty"`
	Metadata   xmlMetadata `xml:"metadata"`
}

type xmlContent struct {
	Text string `xml:",cdata"`
}

type xmlMetadata struct {
	Meta []xmlMeta `xml:"meta"`
}

type xmlMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

func (d *Document) tree() xmlFeed {
	records := make([]xmlRecord, 0, len(d.records))
	for _, r := range d.records {
		rec := xmlRecord{URL: r.URL, DisplayURL: r.DisplayURL, MimeType: r.MimeType}
		if r.HasContent {
			rec.Content = &xmlContent{Text: sanitize(r.Content)}
		}
		for _, m := range r.Metadata {
			rec.Metadata.Meta = append(rec.Metadata.Meta, xmlMeta{Name: m.Key.String(), Content: m.Value})
		}
		records = append(records, rec)
	}

	return xmlFeed{
		Header: xmlHeader{Datasource: d.datasource, FeedType: d.feedType.String()},
		Group:  xmlGroup{Records: records},
	}
}

func (d *Document) encode(indent bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Declaration)
	buf.WriteByte('\n')
	buf.WriteString(Doctype)
	buf.WriteByte('\n')

	enc := xml.NewEncoder(&buf)
	if indent {
		enc.Indent("", "  ")
	}
	if err := enc.Encode(d.tree()); err != nil {
		return nil, errors.Wrapf(err, "encode %s feed for %s", d.feedType, d.datasource)
	}
	if indent {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Serialize renders the document compactly, as uploaded.
func (d *Document) Serialize() ([]byte, error) {
	return d.encode(false)
}

// SerializeIndent renders the document for humans.
func (d *Document) SerializeIndent() ([]byte, error) {
	return d.encode(true)
}

func (d *Document) Reader() (io.Reader, error) {
	data, err := d.Serialize()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// sanitize makes s safe for XML 1.0 CDATA. Invalid UTF-8 becomes U+FFFD and illegal control characters are dropped.
func sanitize(s string) string {
	s = strings.ToValidUTF8(s, "�")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
}
