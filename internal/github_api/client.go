package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"emperror.dev/errors"

	"github.com/thep200/github-gsa-feed/internal/model"
)

const ReadmePath = "README.md"

var ErrMissingField = errors.New("github api: required field missing")

// Failure names one list element that could not be turned into an entity.
type Failure struct {
	Subject string
	Err     error
}

// Batch is the outcome of one list call. FetchErr is set when paging stopped early,
// in which case Items hold what the earlier pages produced.
type Batch[T any] struct {
	Items    []T
	Failures []Failure
	FetchErr error
}

// Client maps GitHub resources onto the entity model. baseURL always ends in "/".
type Client struct {
	caller  *Caller
	baseURL string
	perPage int
}

func NewClient(caller *Caller, baseURL string) *Client {
	return &Client{
		caller:  caller,
		baseURL: baseURL,
		perPage: caller.Config.GithubApi.PerPage,
	}
}

func (c *Client) UsersURL() string {
	return fmt.Sprintf("%sapi/v3/users?per_page=%d", c.baseURL, c.perPage)
}

func (c *Client) OrganizationsURL() string {
	return fmt.Sprintf("%sapi/v3/organizations?per_page=%d", c.baseURL, c.perPage)
}

// FakeOwnerURL is the stable synthetic identity used for an owner's description record.
func (c *Client) FakeOwnerURL(owner *model.Owner) string {
	return c.baseURL + "description/" + owner.Name()
}

func (c *Client) FakeRepositoryURL(repo *model.Repository) string {
	return c.baseURL + "description/" + repo.Owner().Name() + "/" + repo.Name()
}

func (c *Client) ListUsers(ctx context.Context) Batch[*model.Owner] {
	return c.listOwners(ctx, c.UsersURL(), model.OwnerUser)
}

func (c *Client) ListOrganizations(ctx context.Context) Batch[*model.Owner] {
	return c.listOwners(ctx, c.OrganizationsURL(), model.OwnerOrganization)
}

func (c *Client) listOwners(ctx context.Context, url string, kind model.OwnerKind) Batch[*model.Owner] {
	var batch Batch[*model.Owner]

	elements, err := c.caller.FetchAll(ctx, url)
	batch.FetchErr = err

	for i, raw := range elements {
		owner, err := c.decodeOwner(raw, kind)
		if err != nil {
			subject := fmt.Sprintf("%s #%d", kind, i)
			c.caller.Logger.Error(ctx, "Skipping %s: %v", subject, err)
			batch.Failures = append(batch.Failures, Failure{Subject: subject, Err: err})
			continue
		}
		batch.Items = append(batch.Items, owner)
	}

	c.caller.Logger.Info(ctx, "Listed %d %s owners (%d skipped)", len(batch.Items), kind, len(batch.Failures))
	return batch
}

func (c *Client) decodeOwner(raw json.RawMessage, kind model.OwnerKind) (*model.Owner, error) {
	var dto OwnerResponse
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.Wrap(err, "decode owner")
	}
	if dto.Login == nil {
		return nil, errors.WithDetails(ErrMissingField, "field", "login")
	}
	if dto.ReposURL == nil {
		return nil, errors.WithDetails(ErrMissingField, "field", "repos_url", "owner", *dto.Login)
	}

	owner, err := model.NewOwner(*dto.Login, kind, *dto.ReposURL)
	if err != nil {
		return nil, err
	}

	displayURL := str(dto.HTMLURL)
	if model.IsBlank(displayURL) {
		displayURL = c.baseURL + owner.Name()
	}
	if err := owner.Enrich(displayURL, str(dto.Description)); err != nil {
		return nil, err
	}
	return owner, nil
}

// ListRepositories lists the repositories of owner, each with the outcome of its README lookup attached.
func (c *Client) ListRepositories(ctx context.Context, owner *model.Owner) Batch[*model.Repository] {
	var batch Batch[*model.Repository]

	elements, err := c.caller.FetchAll(ctx, owner.RepositoryListURL())
	batch.FetchErr = err

	for i, raw := range elements {
		repo, err := decodeRepository(raw, owner)
		if err != nil {
			subject := fmt.Sprintf("%s repository #%d", owner, i)
			c.caller.Logger.Error(ctx, "Skipping %s: %v", subject, err)
			batch.Failures = append(batch.Failures, Failure{Subject: subject, Err: err})
			continue
		}

		readme, err := c.GetReadme(ctx, repo.ContentsURL(ReadmePath))
		if err != nil {
			c.caller.Logger.Debug(ctx, "No README for %s: %v", repo, err)
		}
		if err := repo.AttachReadme(readme); err != nil {
			batch.Failures = append(batch.Failures, Failure{Subject: repo.String(), Err: err})
			continue
		}
		batch.Items = append(batch.Items, repo)
	}

	return batch
}

func decodeRepository(raw json.RawMessage, owner *model.Owner) (*model.Repository, error) {
	var dto RepositoryResponse
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.Wrap(err, "decode repository")
	}

	switch {
	case dto.Name == nil:
		return nil, errors.WithDetails(ErrMissingField, "field", "name")
	case dto.HTMLURL == nil:
		return nil, errors.WithDetails(ErrMissingField, "field", "html_url", "repository", *dto.Name)
	case dto.StargazersCount == nil:
		return nil, errors.WithDetails(ErrMissingField, "field", "stargazers_count", "repository", *dto.Name)
	case dto.ForksCount == nil:
		return nil, errors.WithDetails(ErrMissingField, "field", "forks_count", "repository", *dto.Name)
	case dto.DefaultBranch == nil:
		return nil, errors.WithDetails(ErrMissingField, "field", "default_branch", "repository", *dto.Name)
	}

	return model.NewRepository(owner, model.RepositoryFields{
		Name:                *dto.Name,
		Description:         str(dto.Description),
		Language:            str(dto.Language),
		DefaultBranchName:   *dto.DefaultBranch,
		DisplayURL:          *dto.HTMLURL,
		ContentsTemplateURL: str(dto.ContentsURL),
		LastUpdatedAt:       parseTimestamp(dto.UpdatedAt),
		ForkCount:           *dto.ForksCount,
		StargazerCount:      *dto.StargazersCount,
	})
}

// parseTimestamp reads an ISO-8601 UTC timestamp. Unparseable or missing values are treated as absent.
func parseTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// GetReadme looks up the README descriptor at url. Any failure, including a non-success
// status or a descriptor without a positive size, means the repository has no README.
func (c *Client) GetReadme(ctx context.Context, url string) (*model.ReadmeFile, error) {
	if url == "" {
		return nil, model.ErrNoReadme
	}

	raw, err := c.caller.FetchObject(ctx, url)
	if err != nil {
		return nil, err
	}

	var dto ReadmeResponse
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, errors.Wrap(err, "decode readme")
	}

	var size int64
	if dto.Size != nil {
		size = *dto.Size
	}
	return model.NewReadmeFile(str(dto.HTMLURL), str(dto.DownloadURL), size)
}
