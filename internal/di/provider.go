package di

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/conneroisu/seo/internal/config"
	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/conneroisu/seo/internal/flipp"
	"github.com/conneroisu/seo/internal/logging"
	"github.com/conneroisu/seo/internal/render"
	"github.com/conneroisu/seo/internal/seo"
)

// Service names.
const (
	ServiceConfig         = "config"
	ServiceLogger         = "logger"
	ServiceSigner         = "seo.signer"
	ServiceViews          = "seo.views"
	ServiceManagerFactory = "seo.factory"
	ServiceManager        = "seo"
)

// ManagerFactory builds a Manager preset from configuration. Extra options
// are applied after the preset ones.
type ManagerFactory func(opts ...seo.ManagerOption) *seo.Manager

// Initialize registers the seo services. A Flipp template configured
// without a signing key fails here rather than on first use.
func (c *ServiceContainer) Initialize() error {
	if c.initialized {
		return nil
	}
	if c.config == nil {
		return seoerrors.NewConfigError(seoerrors.ErrCodeConfigInvalid, "service container has no configuration")
	}

	flippCfg := c.config.Services.Flipp
	if len(flippCfg.Templates) > 0 && flippCfg.Key == "" {
		return seoerrors.ErrFlippKeyMissing().
			WithContext("templates", flippCfg.TemplateAliases())
	}

	c.RegisterInstance(ServiceConfig, c.config)

	// Callers may register their own logger before Initialize.
	if !c.Has(ServiceLogger) {
		c.RegisterSingleton(ServiceLogger, func(DependencyResolver) (interface{}, error) {
			return newLogger(c.config.Log), nil
		}).WithTag("core")
	}

	c.RegisterSingleton(ServiceSigner, func(DependencyResolver) (interface{}, error) {
		if flippCfg.Key == "" {
			return (*flipp.Signer)(nil), nil
		}
		return flipp.NewSigner(flippCfg.Key, flipp.WithBaseURL(flippCfg.BaseURL))
	}).WithTag("seo")

	c.RegisterSingleton(ServiceViews, func(DependencyResolver) (interface{}, error) {
		return render.NewViews(c.config.SEO.Namespace), nil
	}).WithTag("seo")

	c.RegisterSingleton(ServiceManagerFactory, func(resolver DependencyResolver) (interface{}, error) {
		signer, err := resolver.Get(ServiceSigner)
		if err != nil {
			return nil, err
		}
		logger, err := resolver.Get(ServiceLogger)
		if err != nil {
			return nil, err
		}
		return presetFactory(c.config.SEO, flippCfg, signer.(*flipp.Signer), logger.(logging.Logger)), nil
	}).DependsOn(ServiceSigner, ServiceLogger)

	// Transient: a fresh Manager per Get, one per request.
	c.Register(ServiceManager, func(resolver DependencyResolver) (interface{}, error) {
		factory, err := resolver.Get(ServiceManagerFactory)
		if err != nil {
			return nil, err
		}
		return factory.(ManagerFactory)(), nil
	}).DependsOn(ServiceManagerFactory).WithTag("seo")

	c.initialized = true
	return nil
}

func newLogger(cfg config.LogConfig) *logging.SEOLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Level),
		Format: cfg.Format,
		Output: os.Stderr,
	})
}

// presetFactory seeds every Manager with the site name, configured
// defaults, extensions and Flipp templates.
func presetFactory(
	seoCfg config.SEOConfig,
	flippCfg config.FlippConfig,
	signer *flipp.Signer,
	logger logging.Logger,
) ManagerFactory {
	logger = logger.WithComponent("seo")

	defaultKeys := make([]string, 0, len(seoCfg.Defaults))
	for key := range seoCfg.Defaults {
		defaultKeys = append(defaultKeys, key)
	}
	sort.Strings(defaultKeys)

	extensionNames := make([]string, 0, len(seoCfg.Extensions))
	for name := range seoCfg.Extensions {
		extensionNames = append(extensionNames, name)
	}
	sort.Strings(extensionNames)

	return func(opts ...seo.ManagerOption) *seo.Manager {
		base := []seo.ManagerOption{seo.WithNamespace(seoCfg.Namespace)}
		if signer != nil {
			base = append(base, seo.WithSigner(signer))
		}
		m := seo.New(append(base, opts...)...)

		if seoCfg.Site != "" {
			m.Site().Default(seoCfg.Site)
		}
		for _, key := range defaultKeys {
			m.Configure(key, seo.WithDefault(seoCfg.Defaults[key]))
		}
		for _, name := range extensionNames {
			if view, ok := seoCfg.Views[name]; ok {
				m.Extension(name, seoCfg.Extensions[name], view)
			} else {
				m.Extension(name, seoCfg.Extensions[name])
			}
		}
		for _, alias := range flippCfg.TemplateAliases() {
			m.FlippTemplate(alias, flippCfg.Templates[alias])
		}

		logger.Debug(context.Background(), "Manager created",
			"defaults", len(defaultKeys),
			"extensions", len(extensionNames),
			"flipp_templates", len(flippCfg.Templates),
		)
		return m
	}
}

// Convenience methods for typed service retrieval

// GetManager returns a new preset Manager.
func (c *ServiceContainer) GetManager(opts ...seo.ManagerOption) (*seo.Manager, error) {
	service, err := c.Get(ServiceManagerFactory)
	if err != nil {
		return nil, err
	}
	return service.(ManagerFactory)(opts...), nil
}

// GetViews retrieves the extension view registry
func (c *ServiceContainer) GetViews() (*render.Views, error) {
	service, err := c.Get(ServiceViews)
	if err != nil {
		return nil, err
	}
	return service.(*render.Views), nil
}

// GetSigner retrieves the Flipp signer; it is nil when no key is configured.
func (c *ServiceContainer) GetSigner() (*flipp.Signer, error) {
	service, err := c.Get(ServiceSigner)
	if err != nil {
		return nil, err
	}
	return service.(*flipp.Signer), nil
}

// GetLogger retrieves the application logger
func (c *ServiceContainer) GetLogger() (logging.Logger, error) {
	service, err := c.Get(ServiceLogger)
	if err != nil {
		return nil, err
	}
	logger, ok := service.(logging.Logger)
	if !ok {
		return nil, fmt.Errorf("service '%s' is %T, not a logger", ServiceLogger, service)
	}
	return logger, nil
}
