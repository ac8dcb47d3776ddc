// Package crawler harvests owners and repositories from a GitHub instance into two feed documents
// and hands them to a sink: README pointers as a metadata-and-url feed, descriptions as an incremental feed.
package crawler

import (
	"context"

	"emperror.dev/errors"
	"github.com/dustin/go-humanize"

	"github.com/thep200/github-gsa-feed/cfg"
	crawlinfo "github.com/thep200/github-gsa-feed/internal/crawl_info"
	"github.com/thep200/github-gsa-feed/internal/feed"
	githubapi "github.com/thep200/github-gsa-feed/internal/github_api"
	"github.com/thep200/github-gsa-feed/internal/model"
	"github.com/thep200/github-gsa-feed/internal/transport"
	"github.com/thep200/github-gsa-feed/pkg/log"
)

type Crawler interface {
	Crawl(ctx context.Context) (*crawlinfo.Info, error)
}

// Source is the part of the GitHub API the harvest needs.
type Source interface {
	ListUsers(ctx context.Context) githubapi.Batch[*model.Owner]
	ListOrganizations(ctx context.Context) githubapi.Batch[*model.Owner]
	ListRepositories(ctx context.Context, owner *model.Owner) githubapi.Batch[*model.Repository]
	FakeOwnerURL(owner *model.Owner) string
	FakeRepositoryURL(repo *model.Repository) string
}

type FeedCrawler struct {
	Logger log.Logger
	Config *cfg.Config
	source Source
	sink   transport.Sink
}

func NewFeedCrawler(logger log.Logger, config *cfg.Config, source Source, sink transport.Sink) *FeedCrawler {
	return &FeedCrawler{
		Logger: logger,
		Config: config,
		source: source,
		sink:   sink,
	}
}

// Crawl runs one harvest. Failures of single owners or repositories are collected in the returned
// Info and never stop the run; an error is returned only when the run itself could not finish.
func (c *FeedCrawler) Crawl(ctx context.Context) (*crawlinfo.Info, error) {
	datasource := c.Config.Gsa.Datasource
	info := crawlinfo.NewInfo(log.RunID(ctx), datasource)

	contentDoc := feed.New(datasource, feed.Incremental)
	urlDoc := feed.New(datasource, feed.MetadataAndURL)

	c.Logger.Info(ctx, "===== Owners =====")
	owners := c.collectOwners(ctx, info)
	info.Owners = len(owners)

	c.Logger.Info(ctx, "===== Repositories =====")
	var repos []*model.Repository
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return info, errors.Wrap(err, "harvest interrupted")
		}

		owned, result := c.collectRepositories(ctx, owner, info)
		if !result.OK() {
			c.Logger.Error(ctx, "Owner %s: %v", result.Subject, result.Err)
			info.AddFailure(crawlinfo.StageOwner, result.Subject, result.Err)
			continue
		}
		repos = append(repos, owned...)
	}

	// Every owner record precedes the repository records
	c.Logger.Info(ctx, "===== Records =====")
	for _, owner := range owners {
		if contentDoc.AddOwnerRecord(c.source.FakeOwnerURL(owner), owner) {
			info.OwnerRecords++
		} else {
			c.Logger.Debug(ctx, "No record for %s: no description or public page", owner)
		}
	}
	for _, repo := range repos {
		result := c.processRepository(repo, contentDoc, urlDoc, info)
		if !result.OK() {
			c.Logger.Error(ctx, "Repository %s: %v", result.Subject, result.Err)
			info.AddFailure(crawlinfo.StageRepository, result.Subject, result.Err)
		}
	}

	c.Logger.Info(ctx, "===== Delivery =====")
	// The URL document goes first
	for _, doc := range []*feed.Document{urlDoc, contentDoc} {
		if err := c.send(ctx, doc, info); err != nil {
			return info, err
		}
	}

	info.Finish()
	c.logCrawlResults(ctx, info)
	return info, nil
}

// collectOwners returns users followed by organizations.
func (c *FeedCrawler) collectOwners(ctx context.Context, info *crawlinfo.Info) []*model.Owner {
	users := c.source.ListUsers(ctx)
	c.recordBatch(info, crawlinfo.StageUsers, "users", users.FetchErr, users.Failures)

	orgs := c.source.ListOrganizations(ctx)
	c.recordBatch(info, crawlinfo.StageOrganizations, "organizations", orgs.FetchErr, orgs.Failures)

	owners := make([]*model.Owner, 0, len(users.Items)+len(orgs.Items))
	owners = append(owners, users.Items...)
	return append(owners, orgs.Items...)
}

func (c *FeedCrawler) recordBatch(info *crawlinfo.Info, stage, subject string, fetchErr error, failures []githubapi.Failure) {
	info.AddFailure(stage, subject, fetchErr)
	for _, f := range failures {
		info.AddFailure(stage, f.Subject, f.Err)
	}
}

// collectRepositories lists the repositories of owner. A failed listing is recorded and leaves the
// owner with no repositories; only a panic comes back as a failed result.
func (c *FeedCrawler) collectRepositories(ctx context.Context, owner *model.Owner, info *crawlinfo.Info) ([]*model.Repository, ItemResult) {
	var repos []*model.Repository
	result := isolate(owner.String(), func() (int, error) {
		batch := c.source.ListRepositories(ctx, owner)
		if batch.FetchErr != nil {
			c.Logger.Error(ctx, "Repositories of %s: %v", owner, batch.FetchErr)
			info.AddFailure(crawlinfo.StageRepositories, owner.String(), batch.FetchErr)
		}
		for _, f := range batch.Failures {
			info.AddFailure(crawlinfo.StageRepository, f.Subject, f.Err)
		}
		repos = batch.Items
		c.Logger.Info(ctx, "Listed %s: %d repositories", owner, len(repos))
		return len(repos), nil
	})
	return repos, result
}

func (c *FeedCrawler) processRepository(repo *model.Repository, contentDoc, urlDoc *feed.Document, info *crawlinfo.Info) ItemResult {
	return isolate(repo.String(), func() (int, error) {
		info.Repositories++
		records := 0
		if contentDoc.AddRepositoryRecord(c.source.FakeRepositoryURL(repo), repo) {
			info.RepositoryRecords++
			records++
		}
		if repo.HasReadme() {
			info.Readmes++
		}
		if urlDoc.AddReadmeRecord(repo) {
			info.ReadmeRecords++
			records++
		}
		return records, nil
	})
}

// send serializes doc and delivers it. Only a serialization failure is returned; a failed delivery
// is logged and recorded, and the next document is still sent.
func (c *FeedCrawler) send(ctx context.Context, doc *feed.Document, info *crawlinfo.Info) error {
	payload, err := transport.NewPayload(doc, c.pretty())
	if err != nil {
		return errors.Wrapf(err, "serialize %s document", doc.FeedType())
	}

	delivery := crawlinfo.Delivery{
		FeedType: payload.FeedType,
		Sink:     c.sink.Name(),
		Records:  payload.Records,
		Bytes:    len(payload.Data),
	}
	if err := c.sink.Send(ctx, payload); err != nil {
		c.Logger.Error(ctx, "Could not deliver %s feed (%d records, %s) via %s: %v",
			payload.FeedType, payload.Records, humanize.Bytes(uint64(len(payload.Data))), c.sink.Name(), err)
		delivery.Error = err.Error()
		info.AddFailure(crawlinfo.StageSend, payload.FeedType, err)
	}
	info.AddDelivery(delivery)
	return nil
}

// Indented output is for people reading files or the console, never for the appliance.
func (c *FeedCrawler) pretty() bool {
	mode := c.Config.Output.Mode
	return c.Config.Output.Pretty && (mode == cfg.OutputFile || mode == cfg.OutputConsole)
}

func (c *FeedCrawler) logCrawlResults(ctx context.Context, info *crawlinfo.Info) {
	c.Logger.Info(ctx, "==== FEED RUN RESULTS ====")
	c.Logger.Info(ctx, "Datasource: %s", info.Datasource)
	c.Logger.Info(ctx, "Duration: %v", info.Duration())
	c.Logger.Info(ctx, "Owners: %d (%d records)", info.Owners, info.OwnerRecords)
	c.Logger.Info(ctx, "Repositories: %d (%d records)", info.Repositories, info.RepositoryRecords)
	c.Logger.Info(ctx, "READMEs: %d (%d records)", info.Readmes, info.ReadmeRecords)
	for _, d := range info.Deliveries {
		status := "ok"
		if d.Error != "" {
			status = d.Error
		}
		c.Logger.Info(ctx, "Delivery %s via %s: %d records, %s, %s", d.FeedType, d.Sink, d.Records, humanize.Bytes(uint64(d.Bytes)), status)
	}
	if len(info.Failures) > 0 {
		c.Logger.Warn(ctx, "Items skipped or incomplete: %d", len(info.Failures))
	}
}
