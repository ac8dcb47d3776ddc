package githubapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNextLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{
			"next and last",
			`<https://ghe/api/v3/users?since=100>; rel="next", <https://ghe/api/v3/users{?since}>; rel="first"`,
			"https://ghe/api/v3/users?since=100",
		},
		{
			"next not first",
			`<https://ghe/x?page=1>; rel="prev", <https://ghe/x?page=3>; rel="next"`,
			"https://ghe/x?page=3",
		},
		{"no next", `<https://ghe/x?page=1>; rel="prev"`, ""},
		{"several relations", `<https://ghe/x?page=2>; rel="next last"`, "https://ghe/x?page=2"},
		{"garbage", `not a link header`, ""},
		{
			"comma inside url",
			`<https://ghe/x?fields=a,b&page=1>; rel="prev", <https://ghe/x?fields=a,b&page=3>; rel="next"`,
			"https://ghe/x?fields=a,b&page=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNextLink(tt.header))
		})
	}
}

func TestResolveLink(t *testing.T) {
	assert.Equal(t, "http://ghe/api/v3/users?page=2", resolveLink("http://ghe/api/v3/users?page=1", "/api/v3/users?page=2"))
	assert.Equal(t, "http://other/x", resolveLink("http://ghe/api", "http://other/x"))
}
