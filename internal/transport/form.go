package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"emperror.dev/errors"
	"github.com/dustin/go-humanize"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// Form field names of the appliance feed form.
const (
	FieldFeedType   = "feedtype"
	FieldDatasource = "datasource"
	FieldData       = "data"
)

var ErrUpload = errors.New("transport: feed upload rejected")

type UploadError struct {
	URL        string
	StatusCode int
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("GSA feed form (%s) returned %d", e.URL, e.StatusCode)
}

func (e *UploadError) Is(target error) bool {
	return target == ErrUpload
}

// FormSink posts documents to the appliance feed form as multipart/form-data.
type FormSink struct {
	Logger log.Logger
	url    string
	client *http.Client
}

func NewFormSink(logger log.Logger, config *cfg.Config) *FormSink {
	return NewFormSinkWithClient(logger, config.FeedURL(), &http.Client{
		Timeout: time.Duration(config.Gsa.Timeout) * time.Second,
	})
}

func NewFormSinkWithClient(logger log.Logger, url string, client *http.Client) *FormSink {
	return &FormSink{Logger: logger, url: url, client: client}
}

func (s *FormSink) Name() string {
	return cfg.OutputGsa
}

func (s *FormSink) Send(ctx context.Context, p Payload) error {
	body, contentType, err := encodeForm(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, body)
	if err != nil {
		return errors.Wrapf(err, "build upload request %s", s.url)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		s.Logger.Error(ctx, "Upload to %s failed: %v", s.url, err)
		return errors.Wrapf(err, "upload %s feed for %s", p.FeedType, p.Datasource)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		err := &UploadError{URL: s.url, StatusCode: resp.StatusCode}
		s.Logger.Error(ctx, "%v", err)
		return err
	}

	s.Logger.Info(ctx, "Feed for datasource '%s' and feed type '%s' posted to %s (%d records, %s)",
		p.Datasource, p.FeedType, s.url, p.Records, humanize.Bytes(uint64(len(p.Data))))
	return nil
}

func (s *FormSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func encodeForm(p Payload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(FieldFeedType, p.FeedType); err != nil {
		return nil, "", errors.Wrap(err, "write feedtype field")
	}
	if err := w.WriteField(FieldDatasource, p.Datasource); err != nil {
		return nil, "", errors.Wrap(err, "write datasource field")
	}
	part, err := w.CreateFormFile(FieldData, fileName(p))
	if err != nil {
		return nil, "", errors.Wrap(err, "create data part")
	}
	if _, err := part.Write(p.Data); err != nil {
		return nil, "", errors.Wrap(err, "write data part")
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart body")
	}
	return &buf, w.FormDataContentType(), nil
}

func fileName(p Payload) string {
	return p.Datasource + "_" + p.FeedType + ".xml"
}
