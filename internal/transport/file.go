package transport

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"emperror.dev/errors"
	"github.com/dustin/go-humanize"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// FileSink writes each document to <dir>/<datasource>_<feedtype>.xml.
type FileSink struct {
	Logger log.Logger
	dir    string
}

func NewFileSink(logger log.Logger, dir string) *FileSink {
	return &FileSink{Logger: logger, dir: dir}
}

func (s *FileSink) Name() string {
	return cfg.OutputFile
}

func (s *FileSink) Path(p Payload) string {
	return filepath.Join(s.dir, fileName(p))
}

func (s *FileSink) Send(ctx context.Context, p Payload) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", s.dir)
	}

	path := s.Path(p)
	if err := os.WriteFile(path, p.Data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}

	s.Logger.Info(ctx, "Feed for datasource '%s' and feed type '%s' written to %s (%s)",
		p.Datasource, p.FeedType, path, humanize.Bytes(uint64(len(p.Data))))
	return nil
}

func (s *FileSink) Close() error {
	return nil
}

// ConsoleSink prints documents, one after the other.
type ConsoleSink struct {
	Logger log.Logger
	out    io.Writer
}

func NewConsoleSink(logger log.Logger, out io.Writer) *ConsoleSink {
	return &ConsoleSink{Logger: logger, out: out}
}

func (s *ConsoleSink) Name() string {
	return cfg.OutputConsole
}

func (s *ConsoleSink) Send(ctx context.Context, p Payload) error {
	if _, err := s.out.Write(p.Data); err != nil {
		return errors.Wrap(err, "write feed to console")
	}
	s.Logger.Info(ctx, "Feed for datasource '%s' and feed type '%s' written to console", p.Datasource, p.FeedType)
	return nil
}

func (s *ConsoleSink) Close() error {
	return nil
}
