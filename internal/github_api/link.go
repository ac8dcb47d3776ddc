package githubapi

import (
	"net/url"
	"regexp"
	"strings"
)

// linkRegex matches one Link header entry: <url>; rel="type".
var linkRegex = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="([^"]+)"`)

// ParseNextLink extracts the "next" URL from a Link header, or "" when there is none.
//
//	<https://ghe/api/v3/users?per_page=100&since=240>; rel="next", <https://ghe/api/v3/users{?since}>; rel="first"
func ParseNextLink(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	// Entries are matched whole since a URL may itself contain commas
	for _, matches := range linkRegex.FindAllStringSubmatch(linkHeader, -1) {
		// rel may carry several space separated relation types
		for _, rel := range strings.Fields(matches[2]) {
			if rel == "next" {
				return matches[1]
			}
		}
	}
	return ""
}

// resolveLink makes next absolute against the page it came from.
func resolveLink(current, next string) string {
	base, err := url.Parse(current)
	if err != nil {
		return next
	}
	ref, err := url.Parse(next)
	if err != nil {
		return next
	}
	return base.ResolveReference(ref).String()
}
