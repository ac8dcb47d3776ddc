package cfg

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMissingArgument = errors.New("this app needs 3 params: GSADataSource, GitHub_Server and GSA_Server")

// ApplyArgs binds the three positional values of the command line onto the config.
// The GitHub base address always ends with "/" and the GSA base address never does.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w (got %d)", ErrMissingArgument, len(args))
	}

	datasource := strings.TrimSpace(args[0])
	githubServer := strings.TrimSpace(args[1])
	gsaServer := strings.TrimSpace(args[2])
	if datasource == "" || githubServer == "" || gsaServer == "" {
		return fmt.Errorf("%w (blank value)", ErrMissingArgument)
	}

	if !strings.HasSuffix(githubServer, "/") {
		githubServer += "/"
	}
	gsaServer = strings.TrimRight(gsaServer, "/")

	c.Gsa.Datasource = datasource
	c.GithubApi.ApiUrl = githubServer
	c.Gsa.Server = gsaServer
	return nil
}

// FeedURL is the address the feed form is posted to.
func (c *Config) FeedURL() string {
	path := c.Gsa.FeedPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s:%d%s", c.Gsa.Server, c.Gsa.Port, path)
}
