package model

import (
	"strings"
	"time"

	"emperror.dev/errors"
)

// ContentsPathPlaceholder is the path variable of a repository contents URL template.
const ContentsPathPlaceholder = "{+path}"

var (
	ErrNoOwner          = errors.New("repository: owner is required")
	ErrNoRepositoryName = errors.New("repository: name is required")
	ErrNegativeCount    = errors.New("repository: negative count")
	ErrReadmeAttached   = errors.New("repository: readme already attached")
)

type RepositoryFields struct {
	Name                string
	Description         string
	Language            string
	DefaultBranchName   string
	DisplayURL          string
	ContentsTemplateURL string
	LastUpdatedAt       *time.Time
	ForkCount           int
	StargazerCount      int
}

// Repository belongs to exactly one Owner. The owner is shared, never copied.
type Repository struct {
	owner               *Owner
	name                string
	description         string
	language            string
	defaultBranchName   string
	displayURL          string
	contentsTemplateURL string
	lastUpdatedAt       *time.Time
	forkCount           int
	stargazerCount      int
	readme              *ReadmeFile
	readmeSet           bool
}

func NewRepository(owner *Owner, f RepositoryFields) (*Repository, error) {
	if owner == nil {
		return nil, ErrNoOwner
	}
	if IsBlank(f.Name) {
		return nil, errors.WithDetails(ErrNoRepositoryName, "owner", owner.String())
	}
	if f.ForkCount < 0 || f.StargazerCount < 0 {
		return nil, errors.WithDetails(ErrNegativeCount, "forks", f.ForkCount, "stargazers", f.StargazerCount)
	}

	var updated *time.Time
	if f.LastUpdatedAt != nil && !f.LastUpdatedAt.IsZero() {
		t := *f.LastUpdatedAt
		updated = &t
	}

	return &Repository{
		owner:               owner,
		name:                f.Name,
		description:         NormalizeText(f.Description),
		language:            NormalizeText(f.Language),
		defaultBranchName:   NormalizeText(f.DefaultBranchName),
		displayURL:          NormalizeText(f.DisplayURL),
		contentsTemplateURL: NormalizeText(f.ContentsTemplateURL),
		lastUpdatedAt:       updated,
		forkCount:           f.ForkCount,
		stargazerCount:      f.StargazerCount,
	}, nil
}

// AttachReadme records the outcome of the README lookup. nil means the repository has none.
func (r *Repository) AttachReadme(readme *ReadmeFile) error {
	if r.readmeSet {
		return errors.WithDetails(ErrReadmeAttached, "repository", r.String())
	}
	r.readme = readme
	r.readmeSet = true
	return nil
}

// ContentsURL expands the contents template for path. Empty when the repository has no template.
func (r *Repository) ContentsURL(path string) string {
	if r.contentsTemplateURL == "" {
		return ""
	}
	return strings.Replace(r.contentsTemplateURL, ContentsPathPlaceholder, path, 1)
}

func (r *Repository) Owner() *Owner {
	return r.owner
}

func (r *Repository) Name() string {
	return r.name
}

func (r *Repository) Description() string {
	return r.description
}

func (r *Repository) Language() string {
	return r.language
}

func (r *Repository) DefaultBranchName() string {
	return r.defaultBranchName
}

func (r *Repository) DisplayURL() string {
	return r.displayURL
}

func (r *Repository) ContentsTemplateURL() string {
	return r.contentsTemplateURL
}

// LastUpdatedAt is nil when the source value could not be parsed.
func (r *Repository) LastUpdatedAt() *time.Time {
	return r.lastUpdatedAt
}

func (r *Repository) ForkCount() int {
	return r.forkCount
}

func (r *Repository) StargazerCount() int {
	return r.stargazerCount
}

func (r *Repository) Readme() *ReadmeFile {
	return r.readme
}

func (r *Repository) HasReadme() bool {
	return r.readme != nil
}

// String renders "owner/name".
func (r *Repository) String() string {
	return r.owner.Name() + "/" + r.name
}
