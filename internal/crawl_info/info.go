// Package crawlinfo keeps the summary of one harvest run.
package crawlinfo

import (
	"time"
)

// Stages an item failure can come from.
const (
	StageUsers         = "users"
	StageOrganizations = "organizations"
	StageOwner         = "owner"
	StageRepositories  = "repositories"
	StageRepository    = "repository"
	StageSend          = "send"
)

type Failure struct {
	Stage   string `json:"stage"`
	Subject string `json:"subject"`
	Error   string `json:"error"`
}

type Delivery struct {
	FeedType string `json:"feed_type"`
	Sink     string `json:"sink"`
	Records  int    `json:"records"`
	Bytes    int    `json:"bytes"`
	Error    string `json:"error,omitempty"`
}

type Info struct {
	RunID             string     `json:"run_id"`
	Datasource        string     `json:"datasource"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        time.Time  `json:"finished_at"`
	Owners            int        `json:"owners"`
	Repositories      int        `json:"repositories"`
	Readmes           int        `json:"readmes"`
	OwnerRecords      int        `json:"owner_records"`
	RepositoryRecords int        `json:"repository_records"`
	ReadmeRecords     int        `json:"readme_records"`
	Failures          []Failure  `json:"failures,omitempty"`
	Deliveries        []Delivery `json:"deliveries,omitempty"`
}

func NewInfo(runID, datasource string) *Info {
	return &Info{RunID: runID, Datasource: datasource, StartedAt: time.Now()}
}

func (i *Info) AddFailure(stage, subject string, err error) {
	if err == nil {
		return
	}
	i.Failures = append(i.Failures, Failure{Stage: stage, Subject: subject, Error: err.Error()})
}

func (i *Info) AddDelivery(d Delivery) {
	i.Deliveries = append(i.Deliveries, d)
}

func (i *Info) Finish() {
	i.FinishedAt = time.Now()
}

func (i *Info) Duration() time.Duration {
	if i.FinishedAt.IsZero() {
		return time.Since(i.StartedAt)
	}
	return i.FinishedAt.Sub(i.StartedAt)
}

// DeliveryFailed reports whether any document could not be delivered.
func (i *Info) DeliveryFailed() bool {
	for _, d := range i.Deliveries {
		if d.Error != "" {
			return true
		}
	}
	return false
}
