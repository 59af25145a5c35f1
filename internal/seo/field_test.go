package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"title", "title"},
		{"twitterTitle", "twitter.title"},
		{"TwitterTitle", "twitter.title"},
		{"twitterCreator", "twitter.creator"},
		{"ogImageAlt", "og.image.alt"},
		{"already.dotted", "already.dotted"},
		{"twitter title", "twitter.title"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KeyFromName(tc.name))
		})
	}
}

func TestFieldDefaultThenValue(t *testing.T) {
	m := New()

	m.Title().Default("fallback")
	assert.Equal(t, "fallback", m.Title().Get().String())

	m.Title().Set("X")
	assert.Equal(t, "X", m.Title().Get().String())
}

func TestFieldByName(t *testing.T) {
	m := New()

	f := m.Field("twitterDescription")
	assert.Equal(t, KeyTwitterDescription, f.Key())

	f.Set("Short")
	assert.True(t, m.ExtensionEnabled(ExtensionTwitter))
	assert.Equal(t, "Short", m.TwitterDescription().Get().String())
}

func TestWellKnownFieldKeys(t *testing.T) {
	m := New()

	fields := map[string]Field{
		KeyTitle:              m.Title(),
		KeyDescription:        m.Description(),
		KeyURL:                m.URL(),
		KeySite:               m.Site(),
		KeyImage:              m.Image(),
		KeyType:               m.Type(),
		KeyTwitterCreator:     m.TwitterCreator(),
		KeyTwitterSite:        m.TwitterSite(),
		KeyTwitterTitle:       m.TwitterTitle(),
		KeyTwitterDescription: m.TwitterDescription(),
		KeyTwitterImage:       m.TwitterImage(),
	}

	for key, f := range fields {
		assert.Equal(t, key, f.Key())
	}
	assert.ElementsMatch(t, WellKnownKeys(), func() []string {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		return keys
	}())
}

func TestConfigureAppliesModifierBeforeValue(t *testing.T) {
	m := New()

	m.Configure(KeyTitle,
		WithValue(Literal("pricing")),
		WithModify(strings.ToUpper),
		WithDefault("home"),
	)

	assert.Equal(t, "PRICING", m.Get(KeyTitle).String())
	assert.Equal(t, "pricing", m.Raw(KeyTitle).String())
}

func TestConfigureWithoutValueOnlyRegisters(t *testing.T) {
	m := New()

	m.Configure("robots", WithDefault("index,follow"), WithModifier(strings.ToUpper))

	assert.False(t, m.Has("robots"))
	assert.Equal(t, "index,follow", m.Get("robots").String())
}

func TestFieldRawMatchesManagerRaw(t *testing.T) {
	m := New()
	m.Description().Modify(func(s string) string { return s + "!" }).DefaultValue(Literal("d"))
	m.Description().SetValue(Deferred(func() string { return "lazy" }))

	assert.Equal(t, "lazy!", m.Description().Get().String())
	assert.Equal(t, "lazy", m.Description().Raw().String())
}

func TestFieldNamedAfterExtensionStoresValue(t *testing.T) {
	m := New()
	m.Field("favicon").Set("x")

	assert.Equal(t, "x", m.Get("favicon").String())
	assert.False(t, m.ExtensionEnabled("favicon"))

	m.Favicon()
	assert.True(t, m.ExtensionEnabled("favicon"))
}
