// Package feed builds the XML documents pushed to a Google Search Appliance.
// A Document only accumulates records; serializing it never changes it, so it can be done any number of times.
package feed

import (
	"strconv"

	"github.com/thep200/github-gsa-feed/internal/model"
)

type Document struct {
	datasource string
	feedType   FeedType
	records    []Record
}

func New(datasource string, feedType FeedType) *Document {
	return &Document{datasource: datasource, feedType: feedType}
}

func (d *Document) Datasource() string {
	return d.datasource
}

func (d *Document) FeedType() FeedType {
	return d.feedType
}

func (d *Document) Len() int {
	return len(d.records)
}

// Records returns a copy of the records added so far, in insertion order.
func (d *Document) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Add appends r. Records without an identity are refused.
func (d *Document) Add(r Record) bool {
	if r.URL == "" {
		return false
	}
	d.records = append(d.records, r)
	return true
}

// AddOwnerRecord adds the description of owner under fakeID, linking to the owner's public page.
// Owners without a description or public page are skipped.
func (d *Document) AddOwnerRecord(fakeID string, owner *model.Owner) bool {
	if owner == nil || model.IsBlank(owner.Description()) || model.IsBlank(owner.DisplayURL()) {
		return false
	}

	r, err := NewRecord(fakeID, owner.DisplayURL(), MimePlain)
	if err != nil {
		return false
	}

	recordType := RecordUser
	if owner.IsOrganization() {
		recordType = RecordOrg
	}

	r = r.WithContent(owner.Description()).
		WithMeta(MetaOwner, owner.Name()).
		WithMeta(MetaOwnerType, owner.Kind().String()).
		WithMeta(MetaRecordType, recordType.String())
	return d.Add(r)
}

// AddRepositoryRecord adds the description of repo under fakeID. Repositories without a description are skipped.
func (d *Document) AddRepositoryRecord(fakeID string, repo *model.Repository) bool {
	if repo == nil || model.IsBlank(repo.Description()) {
		return false
	}

	r, err := NewRecord(fakeID, repo.DisplayURL(), MimePlain)
	if err != nil {
		return false
	}
	r = repositoryMeta(r.WithContent(repo.Description()), repo, RecordRepo)
	return d.Add(r)
}

// AddReadmeRecord points the receiving crawler at the raw README of repo. No content is attached.
func (d *Document) AddReadmeRecord(repo *model.Repository) bool {
	if repo == nil || !repo.HasReadme() {
		return false
	}

	readme := repo.Readme()
	r, err := NewRecord(readme.RawContentURL(), readme.DisplayURL(), MimeHTML)
	if err != nil {
		return false
	}
	r = repositoryMeta(r, repo, RecordFile)
	return d.Add(r)
}

func repositoryMeta(r Record, repo *model.Repository, recordType RecordType) Record {
	owner := repo.Owner()
	r = r.WithMeta(MetaOwner, owner.Name()).
		WithMeta(MetaOwnerType, owner.Kind().String()).
		WithMeta(MetaRepoName, repo.Name())

	if updated := repo.LastUpdatedAt(); updated != nil {
		r = r.WithMeta(MetaRepoLastUpdated, updated.UTC().Format(DateLayout))
	}

	return r.WithMeta(MetaLanguage, repo.Language()).
		WithMeta(MetaForks, strconv.Itoa(repo.ForkCount())).
		WithMeta(MetaStargazers, strconv.Itoa(repo.StargazerCount())).
		WithMeta(MetaRecordType, recordType.String())
}
