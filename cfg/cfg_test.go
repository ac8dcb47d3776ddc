package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyArgs(t *testing.T) {
	t.Run("normalizes server addresses", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyArgs([]string{"github", "https://ghe.example.com", "http://gsa.example.com/"})

		require.NoError(t, err)
		assert.Equal(t, "github", c.Gsa.Datasource)
		assert.Equal(t, "https://ghe.example.com/", c.GithubApi.ApiUrl)
		assert.Equal(t, "http://gsa.example.com", c.Gsa.Server)
	})

	t.Run("keeps an existing trailing slash on the source address", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, c.ApplyArgs([]string{"ds", "https://ghe/", "http://gsa"}))

		assert.Equal(t, "https://ghe/", c.GithubApi.ApiUrl)
	})

	t.Run("fails when a value is missing", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyArgs([]string{"ds", "https://ghe"})

		require.ErrorIs(t, err, ErrMissingArgument)
		assert.Empty(t, c.Gsa.Datasource)
	})

	t.Run("fails when a value is blank", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyArgs([]string{"ds", "  ", "http://gsa"})

		require.ErrorIs(t, err, ErrMissingArgument)
	})
}

func TestFeedURL(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()
	c.Gsa.Server = "http://gsa.example.com"

	assert.Equal(t, "http://gsa.example.com:19900/xmlfeed", c.FeedURL())

	c.Gsa.FeedPath = "feed"
	assert.Equal(t, "http://gsa.example.com:19900/feed", c.FeedURL())
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{GithubApi: GithubApi{PerPage: 500}}
	c.ApplyDefaults()

	assert.Equal(t, 100, c.GithubApi.PerPage)
	assert.Equal(t, 10000, c.GithubApi.MaxPages)
	assert.Equal(t, 19900, c.Gsa.Port)
	assert.Equal(t, OutputGsa, c.Output.Mode)
	assert.Equal(t, LogFormatConsole, c.App.LogFormat)
}

func TestMockLoader(t *testing.T) {
	loader, err := NewMockLoader("http://ghe/", "http://gsa")
	require.NoError(t, err)

	c, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://ghe/", c.GithubApi.ApiUrl)
	assert.Equal(t, "http://gsa", c.Gsa.Server)
	assert.False(t, c.Mysql.Enabled)
}

func TestViperLoader(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "feed.yaml")
	content := []byte("githubapi:\n  perpage: 50\ngsa:\n  datasource: from-file\noutput:\n  mode: file\n")
	require.NoError(t, os.WriteFile(file, content, 0o600))

	t.Setenv("GSAFEED_GSA_PORT", "8080")

	loader, err := NewViperLoader(file)
	require.NoError(t, err)

	c, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 50, c.GithubApi.PerPage)
	assert.Equal(t, "from-file", c.Gsa.Datasource)
	assert.Equal(t, 8080, c.Gsa.Port)
	assert.Equal(t, OutputFile, c.Output.Mode)
	assert.Equal(t, "/xmlfeed", c.Gsa.FeedPath)

	again, err := loader.Load()
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestViperLoader_MissingExplicitFile(t *testing.T) {
	loader, err := NewViperLoader(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	_, err = loader.Load()
	assert.Error(t, err)
}

func TestLoadWithArgs(t *testing.T) {
	loader, err := NewMockLoader("", "")
	require.NoError(t, err)

	config, err := LoadWithArgs(loader, []string{"github", "https://ghe", "http://gsa/"})
	require.NoError(t, err)
	assert.Equal(t, "https://ghe/", config.GithubApi.ApiUrl)
	assert.Equal(t, "http://gsa", config.Gsa.Server)

	config, err = LoadWithArgs(loader, []string{"github"})
	require.ErrorIs(t, err, ErrMissingArgument)
	assert.Nil(t, config)
}

func TestNewLoaderRejectsNil(t *testing.T) {
	_, err := NewLoader(nil)
	assert.Error(t, err)
}
