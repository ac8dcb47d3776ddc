package feed

import (
	"emperror.dev/errors"
)

var ErrUnknownFeedType = errors.New("feed: unknown feed type")

// FeedType tells the receiving system what a document carries.
type FeedType int

const (
	// MetadataAndURL records carry identity and metadata; the receiving system crawls the content itself.
	MetadataAndURL FeedType = iota
	// Incremental records carry their content and update the index in place.
	Incremental
	// Full is Incremental but replaces every record of the datasource.
	Full
)

var feedTypeNames = map[FeedType]string{
	MetadataAndURL: "metadata-and-url",
	Incremental:    "incremental",
	Full:           "full",
}

func (t FeedType) String() string {
	if name, ok := feedTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

func ParseFeedType(s string) (FeedType, error) {
	for t, name := range feedTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, errors.WithDetails(ErrUnknownFeedType, "feedtype", s)
}

// RecordType is the value of the recordType meta, used by the search front end to style results.
type RecordType int

const (
	RecordUser RecordType = iota
	RecordOrg
	RecordRepo
	RecordFile
)

func (t RecordType) String() string {
	switch t {
	case RecordUser:
		return "User"
	case RecordOrg:
		return "Org"
	case RecordRepo:
		return "Repo"
	case RecordFile:
		return "File"
	}
	return ""
}

// MetaKey is one of the metadata names the search front end knows about.
type MetaKey int

const (
	MetaOwner MetaKey = iota
	MetaOwnerType
	MetaRepoName
	MetaRepoLastUpdated
	MetaLanguage
	MetaForks
	MetaStargazers
	MetaRecordType
)

func (k MetaKey) String() string {
	switch k {
	case MetaOwner:
		return "owner"
	case MetaOwnerType:
		return "ownerType"
	case MetaRepoName:
		return "reponame"
	case MetaRepoLastUpdated:
		return "repolastupdated"
	case MetaLanguage:
		return "language"
	case MetaForks:
		return "forks"
	case MetaStargazers:
		return "stargazers"
	case MetaRecordType:
		return "recordType"
	}
	return ""
}

const (
	MimePlain = "text/plain"
	MimeHTML  = "text/html"
)

// DateLayout is the RFC-822 style date the receiving system expects, e.g. "Mon, 15 Nov 2004 04:58:08 +0000".
const DateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"
