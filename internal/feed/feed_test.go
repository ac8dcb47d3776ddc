package feed

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-gsa-feed/internal/model"
)

func newOwner(t *testing.T, name string, kind model.OwnerKind, displayURL, description string) *model.Owner {
	t.Helper()
	owner, err := model.NewOwner(name, kind, "https://gh/api/v3/users/"+name+"/repos")
	require.NoError(t, err)
	require.NoError(t, owner.Enrich(displayURL, description))
	return owner
}

func newRepo(t *testing.T, owner *model.Owner, f model.RepositoryFields, readme *model.ReadmeFile) *model.Repository {
	t.Helper()
	repo, err := model.NewRepository(owner, f)
	require.NoError(t, err)
	require.NoError(t, repo.AttachReadme(readme))
	return repo
}

func parse(t *testing.T, d *Document) xmlFeed {
	t.Helper()
	data, err := d.Serialize()
	require.NoError(t, err)

	var out xmlFeed
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	require.NoError(t, dec.Decode(&out))
	return out
}

func metaMap(rec xmlRecord) map[string]string {
	out := make(map[string]string, len(rec.Metadata.Meta))
	for _, m := range rec.Metadata.Meta {
		out[m.Name] = m.Content
	}
	return out
}

func TestFeedTypes(t *testing.T) {
	assert.Equal(t, "metadata-and-url", MetadataAndURL.String())
	assert.Equal(t, "incremental", Incremental.String())
	assert.Equal(t, "full", Full.String())

	ft, err := ParseFeedType("incremental")
	require.NoError(t, err)
	assert.Equal(t, Incremental, ft)

	_, err = ParseFeedType("partial")
	assert.ErrorIs(t, err, ErrUnknownFeedType)
}

func TestNewRecord(t *testing.T) {
	t.Run("falls back to displayurl", func(t *testing.T) {
		r, err := NewRecord("", "https://x/y", "")
		require.NoError(t, err)
		assert.Equal(t, "https://x/y", r.URL)
		assert.Equal(t, "https://x/y", r.DisplayURL)
		assert.Equal(t, MimePlain, r.MimeType)

		d := New("github", Incremental)
		assert.True(t, d.Add(r))
	})

	t.Run("refuses a record without identity", func(t *testing.T) {
		_, err := NewRecord(" ", "", MimeHTML)
		assert.ErrorIs(t, err, ErrNoIdentity)

		d := New("github", Incremental)
		assert.False(t, d.Add(Record{}))
		assert.Zero(t, d.Len())
	})

	t.Run("drops blank metas", func(t *testing.T) {
		r, err := NewRecord("https://x", "", "")
		require.NoError(t, err)
		r = r.WithMeta(MetaOwner, "acme").WithMeta(MetaLanguage, "  ").WithMeta(MetaKey(99), "v")

		require.Len(t, r.Metadata, 1)
		_, ok := r.Meta(MetaLanguage)
		assert.False(t, ok)
	})
}

func TestAddOwnerRecord(t *testing.T) {
	t.Run("organization end to end", func(t *testing.T) {
		d := New("github", Incremental)
		acme := newOwner(t, "acme", model.OwnerOrganization, "https://gh/acme", "We build things")

		require.True(t, d.AddOwnerRecord("https://gh/description/acme", acme))

		out := parse(t, d)
		require.Len(t, out.Group.Records, 1)
		rec := out.Group.Records[0]
		assert.Equal(t, "https://gh/description/acme", rec.URL)
		assert.Equal(t, "https://gh/acme", rec.DisplayURL)
		assert.Equal(t, "text/plain", rec.MimeType)
		require.NotNil(t, rec.Content)
		assert.Equal(t, "We build things", rec.Content.Text)
		assert.Equal(t, map[string]string{
			"owner":      "acme",
			"ownerType":  "Organization",
			"recordType": "Org",
		}, metaMap(rec))

		data, err := d.Serialize()
		require.NoError(t, err)
		assert.Contains(t, string(data), `<content><![CDATA[We build things]]></content>`)
		assert.Contains(t, string(data), `<record url="https://gh/description/acme" displayurl="https://gh/acme" mimetype="text/plain">`)
	})

	t.Run("user record type", func(t *testing.T) {
		d := New("github", Incremental)
		require.True(t, d.AddOwnerRecord("https://gh/description/bob", newOwner(t, "bob", model.OwnerUser, "https://gh/bob", "Hi")))

		v, ok := d.Records()[0].Meta(MetaRecordType)
		require.True(t, ok)
		assert.Equal(t, "User", v)
	})

	t.Run("skips owners without description or page", func(t *testing.T) {
		d := New("github", Incremental)

		assert.False(t, d.AddOwnerRecord("https://gh/description/a", newOwner(t, "a", model.OwnerUser, "https://gh/a", "")))
		assert.False(t, d.AddOwnerRecord("https://gh/description/b", newOwner(t, "b", model.OwnerUser, "https://gh/b", "   ")))
		assert.False(t, d.AddOwnerRecord("https://gh/description/c", newOwner(t, "c", model.OwnerUser, "", "text")))
		assert.False(t, d.AddOwnerRecord("https://gh/description/d", nil))
		assert.Zero(t, d.Len())
	})
}

func TestAddRepositoryRecord(t *testing.T) {
	acme := newOwner(t, "acme", model.OwnerOrganization, "https://gh/acme", "We build things")
	updated := time.Date(2015, 11, 15, 4, 58, 8, 0, time.UTC)

	t.Run("carries repository metadata", func(t *testing.T) {
		d := New("github", Incremental)
		repo := newRepo(t, acme, model.RepositoryFields{
			Name: "widgets", Description: "Widget lib", Language: "Go", DisplayURL: "https://gh/acme/widgets",
			LastUpdatedAt: &updated, ForkCount: 2, StargazerCount: 7,
		}, nil)

		require.True(t, d.AddRepositoryRecord("https://gh/description/acme/widgets", repo))

		rec := parse(t, d).Group.Records[0]
		assert.Equal(t, "https://gh/description/acme/widgets", rec.URL)
		assert.Equal(t, "https://gh/acme/widgets", rec.DisplayURL)
		assert.Equal(t, map[string]string{
			"owner":           "acme",
			"ownerType":       "Organization",
			"reponame":        "widgets",
			"repolastupdated": "Sun, 15 Nov 2015 04:58:08 +0000",
			"language":        "Go",
			"forks":           "2",
			"stargazers":      "7",
			"recordType":      "Repo",
		}, metaMap(rec))
	})

	t.Run("omits blank and unknown fields", func(t *testing.T) {
		d := New("github", Incremental)
		repo := newRepo(t, acme, model.RepositoryFields{Name: "tools", Description: "Tools", DisplayURL: "https://gh/acme/tools"}, nil)

		require.True(t, d.AddRepositoryRecord("https://gh/description/acme/tools", repo))

		meta := metaMap(parse(t, d).Group.Records[0])
		assert.NotContains(t, meta, "language")
		assert.NotContains(t, meta, "repolastupdated")
		assert.Equal(t, "0", meta["forks"])

		data, err := d.Serialize()
		require.NoError(t, err)
		assert.NotContains(t, string(data), `content=""`)
	})

	t.Run("skips repositories without description", func(t *testing.T) {
		d := New("github", Incremental)
		repo := newRepo(t, acme, model.RepositoryFields{Name: "blank", Description: " \t"}, nil)

		assert.False(t, d.AddRepositoryRecord("https://gh/description/acme/blank", repo))
		assert.False(t, d.AddRepositoryRecord("https://gh/description/none", nil))
		assert.Zero(t, d.Len())
	})
}

func TestAddReadmeRecord(t *testing.T) {
	acme := newOwner(t, "acme", model.OwnerOrganization, "https://gh/acme", "")

	t.Run("points at the raw readme without content", func(t *testing.T) {
		readme, err := model.NewReadmeFile("https://gh/acme/widgets/blob/main/README.md", "https://gh/raw/acme/widgets/main/README.md", 1234)
		require.NoError(t, err)
		repo := newRepo(t, acme, model.RepositoryFields{Name: "widgets", ForkCount: 1, StargazerCount: 3}, readme)

		d := New("github", MetadataAndURL)
		require.True(t, d.AddReadmeRecord(repo))

		rec := parse(t, d).Group.Records[0]
		assert.Equal(t, "https://gh/raw/acme/widgets/main/README.md", rec.URL)
		assert.Equal(t, "https://gh/acme/widgets/blob/main/README.md", rec.DisplayURL)
		assert.Equal(t, "text/html", rec.MimeType)
		assert.Nil(t, rec.Content)
		assert.Equal(t, "File", metaMap(rec)["recordType"])
		assert.Equal(t, "widgets", metaMap(rec)["reponame"])
	})

	t.Run("skips repositories without readme", func(t *testing.T) {
		d := New("github", MetadataAndURL)
		repo := newRepo(t, acme, model.RepositoryFields{Name: "widgets", Description: "has a description"}, nil)

		assert.False(t, d.AddReadmeRecord(repo))
		assert.Zero(t, d.Len())
	})
}

func TestSerialize(t *testing.T) {
	d := New("github", Incremental)

	t.Run("empty document has header and group", func(t *testing.T) {
		data, err := d.Serialize()
		require.NoError(t, err)

		s := string(data)
		assert.True(t, strings.HasPrefix(s, Declaration))
		assert.Contains(t, s, Doctype)
		assert.Contains(t, s, `<header><datasource>github</datasource><feedtype>incremental</feedtype></header>`)
		assert.Contains(t, s, `<group></group>`)
	})

	t.Run("reflects records added after a previous serialization", func(t *testing.T) {
		first, err := d.Serialize()
		require.NoError(t, err)

		r, err := NewRecord("https://x/1", "", "")
		require.NoError(t, err)
		require.True(t, d.Add(r.WithContent("one")))

		second, err := d.Serialize()
		require.NoError(t, err)
		again, err := d.Serialize()
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, second, again)
		assert.Len(t, parse(t, d).Group.Records, 1)
	})

	t.Run("content stays literal", func(t *testing.T) {
		doc := New("github", Incremental)
		r, err := NewRecord("https://x/2", "", "")
		require.NoError(t, err)
		require.True(t, doc.Add(r.WithContent("<b>bold</b> & ]]> done\x00")))

		data, err := doc.Serialize()
		require.NoError(t, err)
		assert.Contains(t, string(data), "<![CDATA[<b>bold</b> & ]]")
		assert.NotContains(t, string(data), "\x00")

		rec := parse(t, doc).Group.Records[0]
		assert.Equal(t, "<b>bold</b> & ]]> done", rec.Content.Text)
	})

	t.Run("indented and reader variants", func(t *testing.T) {
		pretty, err := d.SerializeIndent()
		require.NoError(t, err)
		assert.Contains(t, string(pretty), "\n  <header>")

		rd, err := d.Reader()
		require.NoError(t, err)
		data, err := io.ReadAll(rd)
		require.NoError(t, err)
		compact, err := d.Serialize()
		require.NoError(t, err)
		assert.Equal(t, compact, data)
	})
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Widget lib", "Widget lib"},
		{"whitespace kept", "a\tb\nc\rd", "a\tb\nc\rd"},
		{"control characters dropped", "a\x00b\x1bc", "abc"},
		{"invalid utf-8 replaced", "caf\xe9!", "caf\uFFFD!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}
