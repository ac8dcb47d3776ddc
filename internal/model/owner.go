package model

import (
	"emperror.dev/errors"
)

type OwnerKind int

const (
	OwnerUser OwnerKind = iota
	OwnerOrganization
)

func (k OwnerKind) String() string {
	if k == OwnerOrganization {
		return "Organization"
	}
	return "User"
}

var (
	ErrNoOwnerName      = errors.New("owner: name is required")
	ErrAlreadyEnriched  = errors.New("owner: already enriched")
	ErrUnknownOwnerKind = errors.New("owner: unknown kind")
)

// Owner is a user or an organization of the source platform.
// Only the display URL and the description change after construction, and only once.
type Owner struct {
	name              string
	kind              OwnerKind
	repositoryListURL string
	displayURL        string
	description       string
	enriched          bool
}

func NewOwner(name string, kind OwnerKind, repositoryListURL string) (*Owner, error) {
	if IsBlank(name) {
		return nil, ErrNoOwnerName
	}
	if kind != OwnerUser && kind != OwnerOrganization {
		return nil, errors.WithStack(ErrUnknownOwnerKind)
	}
	return &Owner{
		name:              name,
		kind:              kind,
		repositoryListURL: NormalizeText(repositoryListURL),
	}, nil
}

// Enrich sets the public URL and description of the owner.
func (o *Owner) Enrich(displayURL, description string) error {
	if o.enriched {
		return errors.WithDetails(ErrAlreadyEnriched, "owner", o.String())
	}
	o.displayURL = NormalizeText(displayURL)
	o.description = NormalizeText(description)
	o.enriched = true
	return nil
}

func (o *Owner) Name() string {
	return o.name
}

func (o *Owner) Kind() OwnerKind {
	return o.kind
}

func (o *Owner) IsOrganization() bool {
	return o.kind == OwnerOrganization
}

func (o *Owner) RepositoryListURL() string {
	return o.repositoryListURL
}

func (o *Owner) DisplayURL() string {
	return o.displayURL
}

func (o *Owner) Description() string {
	return o.description
}

// String renders "kind:name", e.g. "Organization:acme".
func (o *Owner) String() string {
	return o.kind.String() + ":" + o.name
}
