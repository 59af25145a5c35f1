package seo

import (
	"fmt"

	"github.com/a-h/templ"
)

// RawTag is literal head markup recorded under a key.
type RawTag struct {
	Key    string `json:"key" yaml:"key"`
	Markup string `json:"markup" yaml:"markup"`
}

// RawTag records literal markup under key. Without markup the key itself is
// the markup, which suits one-off tags such as
// RawTag(`<meta name="robots" content="noindex">`).
func (m *Manager) RawTag(key string, markup ...string) *Manager {
	tag := key
	if len(markup) > 0 {
		tag = markup[0]
	}
	m.tags.Set(key, tag)
	return m
}

// Tag records a <meta property> tag under "meta.<property>".
func (m *Manager) Tag(property, content string) *Manager {
	return m.RawTag("meta."+property, fmt.Sprintf(
		`<meta property="%s" content="%s" />`,
		templ.EscapeString(property),
		templ.EscapeString(content),
	))
}

// HasRawTag reports whether markup was recorded under key.
func (m *Manager) HasRawTag(key string) bool {
	_, ok := m.tags.Get(key)
	return ok
}

// HasTag reports whether a <meta property> tag was recorded.
func (m *Manager) HasTag(property string) bool {
	return m.HasRawTag("meta." + property)
}

// Tags returns recorded markup in insertion order.
func (m *Manager) Tags() []RawTag {
	tags := make([]RawTag, 0, m.tags.Len())
	for pair := m.tags.Oldest(); pair != nil; pair = pair.Next() {
		tags = append(tags, RawTag{Key: pair.Key, Markup: pair.Value})
	}
	return tags
}
