package di

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/conneroisu/seo/internal/config"
	seoerrors "github.com/conneroisu/seo/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedService struct {
	name string
}

type shutdownRecorder struct {
	name  string
	order *[]string
	err   error
}

func (s *shutdownRecorder) Shutdown(context.Context) error {
	*s.order = append(*s.order, s.name)
	return s.err
}

func TestServiceContainer_TransientAndSingleton(t *testing.T) {
	container := NewServiceContainer(&config.Config{})

	container.Register("transient", func(DependencyResolver) (interface{}, error) {
		return &namedService{name: "transient"}, nil
	})
	container.RegisterSingleton("singleton", func(DependencyResolver) (interface{}, error) {
		return &namedService{name: "singleton"}, nil
	})

	t1, err := container.Get("transient")
	require.NoError(t, err)
	t2, err := container.Get("transient")
	require.NoError(t, err)
	assert.NotSame(t, t1, t2)

	s1, err := container.Get("singleton")
	require.NoError(t, err)
	s2, err := container.Get("singleton")
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}

func TestServiceContainer_DependencyInjection(t *testing.T) {
	container := NewServiceContainer(&config.Config{})

	container.RegisterSingleton("dependency", func(DependencyResolver) (interface{}, error) {
		return &namedService{name: "dependency"}, nil
	})
	container.Register("dependent", func(resolver DependencyResolver) (interface{}, error) {
		dep := resolver.MustGet("dependency").(*namedService)
		return &namedService{name: "uses " + dep.name}, nil
	}).DependsOn("dependency")

	service, err := container.Get("dependent")
	require.NoError(t, err)
	assert.Equal(t, "uses dependency", service.(*namedService).name)

	def, ok := container.GetServiceDefinition("dependent")
	require.True(t, ok)
	assert.Equal(t, []string{"dependency"}, def.Dependencies)
	assert.False(t, def.Singleton)
}

func TestServiceContainer_NotRegistered(t *testing.T) {
	container := NewServiceContainer(&config.Config{})

	_, err := container.Get("missing")
	require.Error(t, err)
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeServiceNotRegistered))
	assert.False(t, container.Has("missing"))

	assert.Panics(t, func() { container.MustGet("missing") })
}

func TestServiceContainer_CircularDependency(t *testing.T) {
	container := NewServiceContainer(&config.Config{})

	container.RegisterSingleton("a", func(resolver DependencyResolver) (interface{}, error) {
		return resolver.Get("b")
	})
	container.RegisterSingleton("b", func(resolver DependencyResolver) (interface{}, error) {
		return resolver.Get("a")
	})

	_, err := container.Get("a")
	require.Error(t, err)
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeCircularDependency))

	// A failed singleton is not cached; fixing the cycle lets it resolve.
	container.RegisterSingleton("b", func(DependencyResolver) (interface{}, error) {
		return &namedService{name: "b"}, nil
	})
	service, err := container.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "b", service.(*namedService).name)
}

func TestServiceContainer_FactoryError(t *testing.T) {
	container := NewServiceContainer(&config.Config{})
	boom := errors.New("boom")

	container.RegisterSingleton("broken", func(DependencyResolver) (interface{}, error) {
		return nil, boom
	})

	_, err := container.Get("broken")
	require.ErrorIs(t, err, boom)
}

func TestServiceContainer_RegisterInstanceAndType(t *testing.T) {
	container := NewServiceContainer(&config.Config{})
	instance := &namedService{name: "instance"}

	container.RegisterInstance("instance", instance)

	service, err := container.Get("instance")
	require.NoError(t, err)
	assert.Same(t, instance, service)

	byType, err := container.GetByType(reflect.TypeOf(instance))
	require.NoError(t, err)
	assert.Same(t, instance, byType)

	container.Register("typed", func(DependencyResolver) (interface{}, error) {
		return "typed", nil
	}).WithType(reflect.TypeOf(""))

	typed, err := container.GetByType(reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Equal(t, "typed", typed)

	_, err = container.GetByType(reflect.TypeOf(0))
	assert.True(t, seoerrors.HasCode(err, seoerrors.ErrCodeServiceNotRegistered))
}

func TestServiceContainer_GetByTagInRegistrationOrder(t *testing.T) {
	container := NewServiceContainer(&config.Config{})

	for _, name := range []string{"first", "second", "untagged", "third"} {
		name := name
		builder := container.Register(name, func(DependencyResolver) (interface{}, error) {
			return name, nil
		})
		if name != "untagged" {
			builder.WithTag("group")
		}
	}

	services, err := container.GetByTag("group")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"first", "second", "third"}, services)
	assert.Equal(t, []string{"first", "second", "untagged", "third"}, container.ListServices())
}

func TestServiceContainer_ShutdownReverseOrder(t *testing.T) {
	container := NewServiceContainer(&config.Config{})
	var order []string

	container.RegisterInstance("first", &shutdownRecorder{name: "first", order: &order})
	container.RegisterSingleton("second", func(DependencyResolver) (interface{}, error) {
		return &shutdownRecorder{name: "second", order: &order, err: errors.New("stuck")}, nil
	})
	container.RegisterSingleton("never-created", func(DependencyResolver) (interface{}, error) {
		return &shutdownRecorder{name: "never-created", order: &order}, nil
	})

	_, err := container.Get("second")
	require.NoError(t, err)

	err = container.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestServiceContainer_ConcurrentSingletonCreation(t *testing.T) {
	container := NewServiceContainer(&config.Config{})
	var created int32

	container.RegisterSingleton("shared", func(DependencyResolver) (interface{}, error) {
		atomic.AddInt32(&created, 1)
		return &namedService{name: "shared"}, nil
	})

	const goroutines = 50
	results := make([]interface{}, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			service, err := container.Get("shared")
			if err == nil {
				results[i] = service
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func BenchmarkServiceContainer_GetSingleton(b *testing.B) {
	container := NewServiceContainer(&config.Config{})
	container.RegisterSingleton("singleton", func(DependencyResolver) (interface{}, error) {
		return &namedService{name: "singleton"}, nil
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = container.Get("singleton")
	}
}
