// Package di provides the service container that wires seo's collaborators
// together: configuration, logging, the Flipp signer, the view registry and
// the per-request Manager factory.
package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/conneroisu/seo/internal/config"
	seoerrors "github.com/conneroisu/seo/internal/errors"
)

// FactoryFunc creates a service instance using the dependency resolver
type FactoryFunc func(resolver DependencyResolver) (interface{}, error)

// DependencyResolver is what factories see of the container. Lookups made
// through it share the caller's resolution chain, so cycles are reported
// instead of deadlocking.
type DependencyResolver interface {
	Get(name string) (interface{}, error)
	GetByType(serviceType reflect.Type) (interface{}, error)
	GetByTag(tag string) ([]interface{}, error)
	MustGet(name string) interface{}
}

// ServiceDefinition defines how a service should be created and managed
type ServiceDefinition struct {
	Name         string
	Type         reflect.Type
	Factory      FactoryFunc
	Singleton    bool
	Dependencies []string
	Tags         []string
}

// ServiceContainer manages dependency injection for the application
type ServiceContainer struct {
	mu         sync.RWMutex
	services   map[string]ServiceDefinition
	order      []string
	singletons map[string]interface{}
	creating   map[string]*sync.WaitGroup

	config      *config.Config
	initialized bool
}

// NewServiceContainer creates a new dependency injection container
func NewServiceContainer(cfg *config.Config) *ServiceContainer {
	return &ServiceContainer{
		services:   make(map[string]ServiceDefinition),
		singletons: make(map[string]interface{}),
		creating:   make(map[string]*sync.WaitGroup),
		config:     cfg,
	}
}

// Register registers a transient service; every Get calls factory.
func (c *ServiceContainer) Register(name string, factory FactoryFunc) *ServiceBuilder {
	return c.define(ServiceDefinition{Name: name, Factory: factory})
}

// RegisterSingleton registers a service created once on first Get.
func (c *ServiceContainer) RegisterSingleton(name string, factory FactoryFunc) *ServiceBuilder {
	return c.define(ServiceDefinition{Name: name, Factory: factory, Singleton: true})
}

// RegisterInstance registers an existing instance as a singleton
func (c *ServiceContainer) RegisterInstance(name string, instance interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remember(name)
	c.singletons[name] = instance
	c.services[name] = ServiceDefinition{
		Name:      name,
		Type:      reflect.TypeOf(instance),
		Singleton: true,
	}
}

func (c *ServiceContainer) define(def ServiceDefinition) *ServiceBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.remember(def.Name)
	delete(c.singletons, def.Name)
	c.services[def.Name] = def
	return &ServiceBuilder{name: def.Name, container: c}
}

// remember records registration order; callers hold the lock.
func (c *ServiceContainer) remember(name string) {
	if _, exists := c.services[name]; !exists {
		c.order = append(c.order, name)
	}
}

// Get retrieves a service from the container
func (c *ServiceContainer) Get(name string) (interface{}, error) {
	return c.resolve(name, make(map[string]bool))
}

// MustGet retrieves a service and panics if not found
func (c *ServiceContainer) MustGet(name string) interface{} {
	return mustGet(c.Get, name)
}

// GetByType retrieves the first service registered with serviceType.
func (c *ServiceContainer) GetByType(serviceType reflect.Type) (interface{}, error) {
	return c.resolveByType(serviceType, make(map[string]bool))
}

// GetByTag retrieves all services with a specific tag, in registration order.
func (c *ServiceContainer) GetByTag(tag string) ([]interface{}, error) {
	return c.resolveByTag(tag, make(map[string]bool))
}

// Has checks if a service is registered
func (c *ServiceContainer) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.services[name]
	return exists
}

// ListServices returns registered service names in registration order.
func (c *ServiceContainer) ListServices() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	services := make([]string, len(c.order))
	copy(services, c.order)
	return services
}

// GetServiceDefinition returns the definition for a service
func (c *ServiceContainer) GetServiceDefinition(name string) (ServiceDefinition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	definition, exists := c.services[name]
	return definition, exists
}

func (c *ServiceContainer) resolve(name string, resolving map[string]bool) (interface{}, error) {
	if resolving[name] {
		return nil, seoerrors.NewInternalError(
			seoerrors.ErrCodeCircularDependency,
			fmt.Sprintf("circular dependency detected for service '%s'", name),
			nil,
		).WithComponent("di")
	}

	c.mu.RLock()
	definition, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return nil, seoerrors.NewInternalError(
			seoerrors.ErrCodeServiceNotRegistered,
			fmt.Sprintf("service '%s' not registered", name),
			nil,
		).WithComponent("di")
	}

	if !definition.Singleton {
		instance, err := c.create(definition, resolving)
		if err != nil {
			return nil, fmt.Errorf("failed to create service '%s': %w", name, err)
		}
		return instance, nil
	}

	for {
		c.mu.Lock()
		if instance, ok := c.singletons[name]; ok {
			c.mu.Unlock()
			return instance, nil
		}
		wg, busy := c.creating[name]
		if !busy {
			break // still holding the lock
		}
		c.mu.Unlock()
		// Another goroutine is creating it; wait, then look again.
		wg.Wait()
	}

	wg := &sync.WaitGroup{}
	wg.Add(1)
	c.creating[name] = wg
	c.mu.Unlock()

	instance, err := c.create(definition, resolving)

	c.mu.Lock()
	delete(c.creating, name)
	if err == nil {
		c.singletons[name] = instance
	}
	c.mu.Unlock()
	wg.Done()

	if err != nil {
		return nil, fmt.Errorf("failed to create singleton service '%s': %w", name, err)
	}
	return instance, nil
}

func (c *ServiceContainer) create(definition ServiceDefinition, resolving map[string]bool) (interface{}, error) {
	if definition.Factory == nil {
		return nil, fmt.Errorf("factory is nil")
	}

	resolving[definition.Name] = true
	defer delete(resolving, definition.Name)

	return definition.Factory(&dependencyResolver{container: c, resolving: resolving})
}

func (c *ServiceContainer) resolveByType(serviceType reflect.Type, resolving map[string]bool) (interface{}, error) {
	c.mu.RLock()
	var match string
	for _, name := range c.order {
		if c.services[name].Type == serviceType {
			match = name
			break
		}
	}
	c.mu.RUnlock()

	if match == "" {
		return nil, seoerrors.NewInternalError(
			seoerrors.ErrCodeServiceNotRegistered,
			fmt.Sprintf("no service found for type %s", serviceType),
			nil,
		).WithComponent("di")
	}
	return c.resolve(match, resolving)
}

func (c *ServiceContainer) resolveByTag(tag string, resolving map[string]bool) ([]interface{}, error) {
	c.mu.RLock()
	var names []string
	for _, name := range c.order {
		for _, t := range c.services[name].Tags {
			if t == tag {
				names = append(names, name)
				break
			}
		}
	}
	c.mu.RUnlock()

	services := make([]interface{}, 0, len(names))
	for _, name := range names {
		service, err := c.resolve(name, resolving)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return services, nil
}

// Shutdown shuts created singletons down in reverse registration order and
// forgets them.
func (c *ServiceContainer) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for i := len(c.order) - 1; i >= 0; i-- {
		name := c.order[i]
		instance, exists := c.singletons[name]
		if !exists {
			continue
		}
		if shutdownable, ok := instance.(interface{ Shutdown(context.Context) error }); ok {
			if err := shutdownable.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to shutdown %s: %w", name, err))
			}
		}
	}

	c.singletons = make(map[string]interface{})

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// dependencyResolver carries one resolution chain through nested factories.
type dependencyResolver struct {
	container *ServiceContainer
	resolving map[string]bool
}

func (dr *dependencyResolver) Get(name string) (interface{}, error) {
	return dr.container.resolve(name, dr.resolving)
}

func (dr *dependencyResolver) GetByType(serviceType reflect.Type) (interface{}, error) {
	return dr.container.resolveByType(serviceType, dr.resolving)
}

func (dr *dependencyResolver) GetByTag(tag string) ([]interface{}, error) {
	return dr.container.resolveByTag(tag, dr.resolving)
}

func (dr *dependencyResolver) MustGet(name string) interface{} {
	return mustGet(dr.Get, name)
}

func mustGet(get func(string) (interface{}, error), name string) interface{} {
	instance, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to get service '%s': %v", name, err))
	}
	return instance
}

// ServiceBuilder refines a definition after registration.
type ServiceBuilder struct {
	name      string
	container *ServiceContainer
}

// AsSingleton marks the service as a singleton
func (sb *ServiceBuilder) AsSingleton() *ServiceBuilder {
	return sb.update(func(d *ServiceDefinition) { d.Singleton = true })
}

// DependsOn records dependencies of the service
func (sb *ServiceBuilder) DependsOn(dependencies ...string) *ServiceBuilder {
	return sb.update(func(d *ServiceDefinition) {
		d.Dependencies = append(d.Dependencies, dependencies...)
	})
}

// WithTag adds tags to the service
func (sb *ServiceBuilder) WithTag(tags ...string) *ServiceBuilder {
	return sb.update(func(d *ServiceDefinition) { d.Tags = append(d.Tags, tags...) })
}

// WithType sets the service type used by GetByType
func (sb *ServiceBuilder) WithType(serviceType reflect.Type) *ServiceBuilder {
	return sb.update(func(d *ServiceDefinition) { d.Type = serviceType })
}

func (sb *ServiceBuilder) update(fn func(*ServiceDefinition)) *ServiceBuilder {
	sb.container.mu.Lock()
	defer sb.container.mu.Unlock()

	def := sb.container.services[sb.name]
	fn(&def)
	sb.container.services[sb.name] = def
	return sb
}
