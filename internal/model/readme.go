package model

import (
	"emperror.dev/errors"
)

var ErrNoReadme = errors.New("readme: not usable")

// ReadmeFile is a README that can be fed: it always has a display URL, a raw URL and a positive size.
type ReadmeFile struct {
	displayURL    string
	rawContentURL string
	size          int64
}

// NewReadmeFile refuses partial READMEs, so a nil *ReadmeFile is the only way to say "no README".
func NewReadmeFile(displayURL, rawContentURL string, size int64) (*ReadmeFile, error) {
	if IsBlank(displayURL) {
		return nil, errors.WithMessage(ErrNoReadme, "missing display url")
	}
	if IsBlank(rawContentURL) {
		return nil, errors.WithMessage(ErrNoReadme, "missing raw content url")
	}
	if size <= 0 {
		return nil, errors.WithMessagef(ErrNoReadme, "size %d", size)
	}
	return &ReadmeFile{
		displayURL:    displayURL,
		rawContentURL: rawContentURL,
		size:          size,
	}, nil
}

func (r *ReadmeFile) DisplayURL() string {
	return r.displayURL
}

func (r *ReadmeFile) RawContentURL() string {
	return r.rawContentURL
}

func (r *ReadmeFile) Size() int64 {
	return r.size
}
