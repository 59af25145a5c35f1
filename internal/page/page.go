// Package page loads YAML page definitions and applies them to a Manager.
//
//	values:
//	  title: About us
//	  twitter.title: About Acme
//	defaults:
//	  description: Acme makes anvils
//	tags:
//	  fb:app_id: "123"
//	raw_tags:
//	  robots: <meta name="robots" content="noindex">
//	extensions:
//	  favicon: true
//	flipp:
//	  alias: blog
//	  template: tmpl_123
//	  data:
//	    title: About us
package page

import (
	"bytes"
	"errors"
	"io"
	"os"
	"sort"

	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/seo"
	"github.com/conneroisu/seo/internal/validation"
	"gopkg.in/yaml.v3"
)

// Page is one page definition.
type Page struct {
	Values     map[string]string `yaml:"values"`
	Defaults   map[string]string `yaml:"defaults"`
	Tags       map[string]string `yaml:"tags"`
	RawTags    map[string]string `yaml:"raw_tags"`
	Extensions map[string]bool   `yaml:"extensions"`
	Flipp      *Flipp            `yaml:"flipp"`
}

// Flipp asks for a signed image for the page. Template configures the
// alias first; without it the alias must already be configured.
type Flipp struct {
	Alias    string         `yaml:"alias"`
	Template string         `yaml:"template"`
	Data     map[string]any `yaml:"data"`
}

// Load reads a page file.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, seoerrors.NewIOError(seoerrors.ErrCodeFileNotFound, "page file not found", err).WithFile(path)
		}
		return nil, seoerrors.WrapIO(err, seoerrors.ErrCodeFileNotFound, "failed to read page file")
	}

	p, err := Parse(data)
	if err != nil {
		var se *seoerrors.SEOError
		if errors.As(err, &se) {
			return nil, se.WithFile(path)
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes a page definition. Unknown top-level keys are rejected.
func Parse(data []byte) (*Page, error) {
	var p Page
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, invalidPage("invalid page file: " + err.Error())
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// validate checks what would otherwise surface as broken markup: raw tags
// must be head content and the canonical URL must be absolute.
func (p *Page) validate() error {
	if p.Flipp != nil && p.Flipp.Alias == "" {
		return invalidPage("flipp section needs an alias")
	}

	for _, key := range sortedKeys(p.RawTags) {
		markup := p.RawTags[key]
		if markup == "" {
			markup = key
		}
		if err := validation.ValidateHeadMarkup(markup); err != nil {
			return invalidPage("raw tag " + key + ": " + err.Error()).WithContext("key", key)
		}
	}

	if u, ok := p.Values[seo.KeyURL]; ok && u != "" {
		if err := validation.ValidateURL(u); err != nil {
			return invalidPage("url: " + err.Error()).WithContext("key", seo.KeyURL)
		}
	}

	return nil
}

func invalidPage(msg string) *seoerrors.SEOError {
	return seoerrors.NewValidationError(seoerrors.ErrCodeConfigInvalid, msg).WithComponent("page")
}

// Apply writes the page into m: defaults, then extensions, then values,
// then tags, then the Flipp image. Map sections apply in key order.
func (p *Page) Apply(m *seo.Manager) error {
	for _, key := range sortedKeys(p.Defaults) {
		m.Configure(key, seo.WithDefault(p.Defaults[key]))
	}
	for _, name := range sortedKeys(p.Extensions) {
		m.Extension(name, p.Extensions[name])
	}

	m.SetMap(p.Values)

	for _, property := range sortedKeys(p.Tags) {
		m.Tag(property, p.Tags[property])
	}
	for _, key := range sortedKeys(p.RawTags) {
		if markup := p.RawTags[key]; markup != "" {
			m.RawTag(key, markup)
		} else {
			m.RawTag(key)
		}
	}

	if p.Flipp != nil {
		if p.Flipp.Template != "" {
			m.FlippTemplate(p.Flipp.Alias, p.Flipp.Template)
		}
		var data any
		if len(p.Flipp.Data) > 0 {
			data = p.Flipp.Data
		}
		if _, err := m.Flipp(p.Flipp.Alias, data); err != nil {
			return err
		}
	}

	return nil
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
