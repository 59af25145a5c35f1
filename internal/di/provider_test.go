package di

import (
	"strings"
	"testing"

	"github.com/conneroisu/seo/internal/config"
	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/logging"
	"github.com/conneroisu/seo/internal/seo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SEO: config.SEOConfig{
			Namespace:  "seo",
			Site:       "Acme",
			Defaults:   map[string]string{"description": "Default description", "twitter.site": "@acme"},
			Extensions: map[string]bool{"twitter": true, "favicon": true},
			Views:      map[string]string{"favicon": "app::icons"},
		},
		Services: config.ServicesConfig{
			Flipp: config.FlippConfig{
				Key:       "secret",
				BaseURL:   "https://s.useflipp.com",
				Templates: map[string]string{"blog": "tmpl_blog"},
			},
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
	}
}

func initializedContainer(t *testing.T, cfg *config.Config) *ServiceContainer {
	t.Helper()
	container := NewServiceContainer(cfg)
	container.RegisterInstance(ServiceLogger, logging.Discard())
	require.NoError(t, container.Initialize())
	return container
}

func TestInitializeRegistersServices(t *testing.T) {
	container := initializedContainer(t, testConfig())

	for _, name := range []string{ServiceConfig, ServiceLogger, ServiceSigner, ServiceViews, ServiceManagerFactory, ServiceManager} {
		assert.True(t, container.Has(name), name)
	}

	// Initialize is idempotent.
	require.NoError(t, container.Initialize())

	cfg, err := container.Get(ServiceConfig)
	require.NoError(t, err)
	assert.Same(t, container.config, cfg)

	logger, err := container.GetLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestManagerIsTransientAndPreset(t *testing.T) {
	container := initializedContainer(t, testConfig())

	first, err := container.Get(ServiceManager)
	require.NoError(t, err)
	second, err := container.Get(ServiceManager)
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	m := first.(*seo.Manager)
	assert.Equal(t, "Acme", m.Get(seo.KeySite).String())
	assert.Equal(t, "Default description", m.Get(seo.KeyDescription).String())
	assert.Equal(t, "@acme", m.Get(seo.KeyTwitterSite).String())
	assert.True(t, m.ExtensionEnabled(seo.ExtensionTwitter))

	assert.Equal(t, []seo.ExtensionView{
		{Name: "twitter", View: "seo::extensions.twitter"},
		{Name: "favicon", View: "app::icons"},
	}, m.Extensions())

	id, ok := m.FlippTemplateID("blog")
	require.True(t, ok)
	assert.Equal(t, "tmpl_blog", id)

	// Managers do not share state.
	m.Title().Set("Only here")
	assert.False(t, second.(*seo.Manager).Get(seo.KeyTitle).Present())
}

func TestGetManagerAppliesOptions(t *testing.T) {
	container := initializedContainer(t, testConfig())

	m, err := container.GetManager(seo.WithRequestURL(func() string { return "https://acme.test/a" }))
	require.NoError(t, err)

	m.WithURL()
	assert.Equal(t, "https://acme.test/a", m.Get(seo.KeyURL).String())

	url, err := m.Flipp("blog", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url.String(), "https://s.useflipp.com/tmpl_blog.png?s="))
}

func TestSignerAndViews(t *testing.T) {
	container := initializedContainer(t, testConfig())

	signer, err := container.GetSigner()
	require.NoError(t, err)
	require.NotNil(t, signer)
	assert.Equal(t, "https://s.useflipp.com", signer.BaseURL())

	views, err := container.GetViews()
	require.NoError(t, err)
	_, ok := views.Lookup("seo::extensions.twitter")
	assert.True(t, ok)

	again, err := container.GetViews()
	require.NoError(t, err)
	assert.Same(t, views, again)
}

func TestNoKeyMeansNoSigner(t *testing.T) {
	cfg := testConfig()
	cfg.Services.Flipp.Key = ""
	cfg.Services.Flipp.Templates = map[string]string{}

	container := initializedContainer(t, cfg)

	signer, err := container.GetSigner()
	require.NoError(t, err)
	assert.Nil(t, signer)

	m, err := container.GetManager()
	require.NoError(t, err)
	m.FlippTemplate("card", "T")
	_, err = m.Flipp("card", nil)
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeFlippKeyMissing))
}

func TestInitializeFailsOnTemplatesWithoutKey(t *testing.T) {
	cfg := testConfig()
	cfg.Services.Flipp.Key = ""

	container := NewServiceContainer(cfg)
	err := container.Initialize()
	require.Error(t, err)
	assert.True(t, seoerrors.IsConfigError(err))
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeFlippKeyMissing))
	assert.False(t, container.Has(ServiceManager))
}

func TestInitializeWithoutConfig(t *testing.T) {
	err := NewServiceContainer(nil).Initialize()
	require.Error(t, err)
	assert.True(t, seoerrors.IsConfigError(err))
}
