package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/flipp"
	"github.com/conneroisu/seo/internal/testutils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testPage = `
values:
  title: About us
extensions:
  twitter: true
`

func setupViper(t *testing.T, values map[string]interface{}) {
	t.Helper()
	viper.Reset()
	viper.Set("log.level", "error")
	for k, v := range values {
		viper.Set(k, v)
	}
	t.Cleanup(viper.Reset)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	return testutils.WriteFile(t, t.TempDir(), name, content)
}

func runCommand(run func(*cobra.Command, []string) error, stdin string, args ...string) (string, error) {
	c := &cobra.Command{}
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetIn(strings.NewReader(stdin))
	err := run(c, args)
	return out.String(), err
}

func TestRenderHTML(t *testing.T) {
	setupViper(t, map[string]interface{}{"seo.site": "Acme"})
	renderFlags.Page = writeFile(t, "page.yml", testPage)
	renderFlags.Format = "html"
	t.Cleanup(func() { renderFlags.Page, renderFlags.Format = "", "html" })

	out, err := runCommand(runRender, "")
	require.NoError(t, err)

	assert.Contains(t, out, "<title>About us</title>")
	assert.Contains(t, out, `<meta property="og:site_name" content="Acme" />`)
	assert.Contains(t, out, `<meta property="og:type" content="website" />`)
	assert.Contains(t, out, `name="twitter:card"`)
}

func TestRenderJSON(t *testing.T) {
	setupViper(t, map[string]interface{}{
		"seo.defaults": map[string]interface{}{"description": "Acme makes anvils"},
	})
	renderFlags.Page = writeFile(t, "page.yml", testPage)
	renderFlags.Format = "json"
	t.Cleanup(func() { renderFlags.Page, renderFlags.Format = "", "html" })

	out, err := runCommand(runRender, "")
	require.NoError(t, err)

	var tags map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	assert.Equal(t, "About us", tags["title"])
	assert.Equal(t, "Acme makes anvils", tags["description"])
	assert.Contains(t, tags, "image")
	assert.Nil(t, tags["image"])
}

func TestRenderYAML(t *testing.T) {
	setupViper(t, nil)
	renderFlags.Page = writeFile(t, "page.yml", testPage)
	renderFlags.Format = "yaml"
	t.Cleanup(func() { renderFlags.Page, renderFlags.Format = "", "html" })

	out, err := runCommand(runRender, "")
	require.NoError(t, err)

	var tags map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &tags))
	assert.Equal(t, "About us", tags["title"])
	assert.Contains(t, out, "title: About us")
}

func TestRenderUsesConfiguredPage(t *testing.T) {
	setupViper(t, map[string]interface{}{
		"preview.page": writeFile(t, "configured.yml", "values:\n  title: Configured\n"),
	})
	renderFlags.Format = "html"

	out, err := runCommand(runRender, "")
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Configured</title>")
}

func TestRenderMissingPage(t *testing.T) {
	setupViper(t, nil)
	renderFlags.Page = filepath.Join(t.TempDir(), "missing.yml")
	t.Cleanup(func() { renderFlags.Page = "" })

	_, err := runCommand(runRender, "")
	require.Error(t, err)
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeFileNotFound))
}

func TestRenderRejectsInvalidConfig(t *testing.T) {
	setupViper(t, map[string]interface{}{"services.flipp.base_url": "ftp://example.com"})

	_, err := runCommand(runRender, "")
	require.Error(t, err)
	assert.True(t, seoerrors.IsConfigError(err))
}

const testDocument = `<!DOCTYPE html>
<html><head>
<title> Hello </title>
<meta property="og:description" content="World" />
<meta name="twitter:title" content="Hi" />
<meta name="robots" content="noindex" />
</head><body></body></html>`

func TestInspectTable(t *testing.T) {
	setupViper(t, nil)
	inspectFlags.Format = "table"

	out, err := runCommand(runInspect, "", writeFile(t, "index.html", testDocument))
	require.NoError(t, err)

	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "twitter.title")
	assert.Contains(t, out, "Twitter")
	assert.Contains(t, out, "Core")
	assert.Contains(t, out, "Raw")
}

func TestInspectJSONFromStdin(t *testing.T) {
	setupViper(t, nil)
	inspectFlags.Format = "json"
	t.Cleanup(func() { inspectFlags.Format = "table" })

	out, err := runCommand(runInspect, testDocument, "-")
	require.NoError(t, err)

	var result inspectResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []inspectEntry{
		{Key: "title", Value: "Hello"},
		{Key: "description", Value: "World"},
		{Key: "twitter.title", Value: "Hi"},
	}, result.Values)
	require.Len(t, result.RawTags, 1)
	assert.Contains(t, result.RawTags[0].Value, "noindex")
}

func TestInspectEmptyDocument(t *testing.T) {
	inspectFlags.Format = "table"

	out, err := runCommand(runInspect, "<html></html>", "-")
	require.NoError(t, err)
	assert.Equal(t, "No tags found.\n", out)
}

func TestInspectMissingFile(t *testing.T) {
	_, err := runCommand(runInspect, "", filepath.Join(t.TempDir(), "missing.html"))
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeFileNotFound))
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Core", kindLabel("title"))
	assert.Equal(t, "Twitter", kindLabel("twitter.title"))
	assert.Equal(t, "Og", kindLabel("og.locale"))
}

func resetFlippFlags(t *testing.T) {
	t.Cleanup(func() { *flippFlags = StandardFlags{} })
}

func TestFlipp(t *testing.T) {
	setupViper(t, map[string]interface{}{
		"services.flipp.key":       "secret",
		"services.flipp.templates": map[string]interface{}{"blog": "tmpl"},
	})
	resetFlippFlags(t)
	flippFlags.Title = "Hello"

	out, err := runCommand(runFlipp, "", "blog")
	require.NoError(t, err)

	url := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(url, "https://s.useflipp.com/tmpl.png?s="), url)

	rest := strings.TrimPrefix(url, "https://s.useflipp.com/tmpl.png?s=")
	signature, encoded, ok := strings.Cut(rest, "&v=")
	require.True(t, ok)

	signer, err := flipp.NewSigner("secret")
	require.NoError(t, err)
	assert.True(t, signer.Verify("tmpl", encoded, signature))

	want, err := signer.Encode(map[string]interface{}{"title": "Hello"})
	require.NoError(t, err)
	assert.Equal(t, want, encoded)
}

func TestFlippDefaultPayloadFromPage(t *testing.T) {
	setupViper(t, map[string]interface{}{
		"services.flipp.key":       "secret",
		"services.flipp.templates": map[string]interface{}{"blog": "tmpl"},
	})
	resetFlippFlags(t)
	flippFlags.Page = writeFile(t, "page.yml", "values:\n  title: Post\n")

	out, err := runCommand(runFlipp, "", "blog")
	require.NoError(t, err)

	signer, err := flipp.NewSigner("secret")
	require.NoError(t, err)
	want, err := signer.URL("tmpl", json.RawMessage(`{"title":"Post","description":null}`))
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(out))
}

func TestFlippUnknownAlias(t *testing.T) {
	setupViper(t, map[string]interface{}{"services.flipp.key": "secret"})
	resetFlippFlags(t)

	_, err := runCommand(runFlipp, "", "shop")
	require.Error(t, err)
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeFlippTemplateMissing))
}

func TestFlippTemplatesWithoutKey(t *testing.T) {
	setupViper(t, map[string]interface{}{
		"services.flipp.templates": map[string]interface{}{"blog": "tmpl"},
	})
	resetFlippFlags(t)

	_, err := runCommand(runFlipp, "", "blog")
	require.Error(t, err)
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeFlippKeyMissing))

	hint := seoerrors.WithSuggestions(err, suggestionContext()).Error()
	assert.Contains(t, hint, "SEO_SERVICES_FLIPP_KEY")
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	return testutils.WriteImage(t, t.TempDir(), "logo.png", w, h)
}

func TestFavicon(t *testing.T) {
	setupViper(t, nil)
	outputDir := filepath.Join(t.TempDir(), "public")
	faviconFlags.OutputDir = outputDir
	faviconFlags.Watch = false
	t.Cleanup(func() { faviconFlags.OutputDir = "" })

	out, err := runCommand(runFavicon, "", writePNG(t, 64, 32))
	require.NoError(t, err)

	for _, name := range []string{"favicon.ico", "favicon.png", "apple-touch-icon.png"} {
		assert.FileExists(t, filepath.Join(outputDir, name))
		assert.Contains(t, out, name)
	}
}

func TestFaviconSourceFromConfig(t *testing.T) {
	outputDir := t.TempDir()
	setupViper(t, map[string]interface{}{
		"favicon.source":     writePNG(t, 16, 16),
		"favicon.output_dir": outputDir,
	})

	_, err := runCommand(runFavicon, "")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outputDir, "favicon.png"))
}

func TestFaviconWithoutSource(t *testing.T) {
	setupViper(t, nil)

	_, err := runCommand(runFavicon, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "favicon.source")
}

func TestVersion(t *testing.T) {
	t.Cleanup(func() {
		versionShort, versionDetailed = false, false
		versionFlags.Format = "text"
	})

	versionFlags.Format = "json"
	out, err := runCommand(runVersionCommand, "")
	require.NoError(t, err)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "is_release")

	versionFlags.Format = "text"
	out, err = runCommand(runVersionCommand, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "seo "))

	versionShort = true
	out, err = runCommand(runVersionCommand, "")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestExecuteVersion(t *testing.T) {
	setupViper(t, nil)
	t.Cleanup(func() {
		versionShort = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--short"})

	require.NoError(t, rootCmd.Execute())
	assert.NotEmpty(t, strings.TrimSpace(out.String()))
}

func TestFormatFlagValidation(t *testing.T) {
	c := &cobra.Command{}
	flags := &StandardFlags{}
	AddFormatFlag(c, flags, "table", "json")

	assert.Equal(t, "table", flags.Format)
	require.NoError(t, c.Flags().Set("format", "json"))
	assert.Equal(t, "json", flags.Format)

	err := c.Flags().Set("format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of: table, json")
	assert.Equal(t, "json", flags.Format)
}

func TestServerFlagValidation(t *testing.T) {
	c := &cobra.Command{}
	flags := AddStandardFlags(c, "server")

	require.NoError(t, c.Flags().Set("port", "0"))
	assert.Equal(t, 0, flags.Port)
	assert.Error(t, c.Flags().Set("port", "70000"))
	assert.Error(t, c.Flags().Set("port", "http"))
}

func TestValidateHelpers(t *testing.T) {
	assert.NoError(t, ValidatePort("8080"))
	assert.Error(t, ValidatePort("-1"))

	assert.NoError(t, ValidateFileExists(""))
	assert.Error(t, ValidateFileExists(filepath.Join(t.TempDir(), "nope")))

	assert.NoError(t, ValidateJSON(`{"a":1}`))
	assert.Error(t, ValidateJSON(`[1]`))
	assert.Error(t, ValidateJSON(`{`))

	assert.NoError(t, ValidateOneOf("html", "json")("JSON"))
}

func TestParseData(t *testing.T) {
	flags := &StandardFlags{Data: `{"title":"From data","author":"Ada"}`, Title: "Override"}
	data, err := flags.ParseData()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"title": "Override", "author": "Ada"}, data)

	file := writeFile(t, "data.json", `{"description":"From file"}`)
	data, err = (&StandardFlags{Data: "@" + file}).ParseData()
	require.NoError(t, err)
	assert.Equal(t, "From file", data["description"])

	data, err = (&StandardFlags{}).ParseData()
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = (&StandardFlags{Data: "@" + filepath.Join(t.TempDir(), "nope.json")}).ParseData()
	assert.Error(t, err)

	assert.Error(t, (&StandardFlags{Data: "{"}).ValidateFlags())
	assert.Error(t, (&StandardFlags{Port: 70000}).ValidateFlags())
}
