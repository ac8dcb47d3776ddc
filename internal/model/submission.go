package model

import (
	"context"
	"time"

	"emperror.dev/errors"

	"github.com/thep200/github-gsa-feed/cfg"
	"github.com/thep200/github-gsa-feed/pkg/db"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

// Submission is one delivery attempt of a feed document. It is an audit trail only.
type Submission struct {
	Model
	RunID      string `json:"run_id" gorm:"column:run_id;type:varchar(64);index"`
	Datasource string `json:"datasource" gorm:"column:datasource;type:varchar(255);not null"`
	FeedType   string `json:"feed_type" gorm:"column:feed_type;type:varchar(32);not null"`
	Sink       string `json:"sink" gorm:"column:sink;type:varchar(32);not null"`
	Records    int    `json:"records" gorm:"column:records;default:0"`
	Bytes      int    `json:"bytes" gorm:"column:bytes;default:0"`
	Success    bool   `json:"success" gorm:"column:success"`
	Error      string `json:"error" gorm:"column:error;type:text"`
}

type SubmissionEntry struct {
	RunID      string
	Datasource string
	FeedType   string
	Sink       string
	Records    int
	Bytes      int
	Err        error
}

func NewSubmission(config *cfg.Config, logger log.Logger, db *db.Mysql) (*Submission, error) {
	submission := &Submission{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return submission, nil
}

func (s *Submission) TableName() string {
	return "feed_submissions"
}

// FromEntry maps an entry onto a row, truncating values to their column sizes.
func (s *Submission) FromEntry(entry SubmissionEntry) *Submission {
	now := time.Now()
	row := &Submission{
		RunID:      TruncateString(entry.RunID, 64),
		Datasource: TruncateString(entry.Datasource, 250),
		FeedType:   TruncateString(entry.FeedType, 32),
		Sink:       TruncateString(entry.Sink, 32),
		Records:    entry.Records,
		Bytes:      entry.Bytes,
		Success:    entry.Err == nil,
	}
	if entry.Err != nil {
		row.Error = TruncateString(entry.Err.Error(), 65000)
	}
	row.CreatedAt = now
	row.UpdatedAt = now
	return row
}

func (s *Submission) Create(ctx context.Context, entry SubmissionEntry) error {
	gdb, err := s.Mysql.Db()
	if err != nil {
		s.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return errors.Wrap(err, "submission: connect")
	}

	row := s.FromEntry(entry)
	if err := gdb.WithContext(ctx).Create(row).Error; err != nil {
		s.Logger.Error(ctx, "Failed to record submission for %s/%s: %v", entry.Datasource, entry.FeedType, err)
		return errors.Wrap(err, "submission: create")
	}

	s.Logger.Debug(ctx, "Recorded submission ID=%d (%s/%s via %s)", row.ID, row.Datasource, row.FeedType, row.Sink)
	return nil
}
