// Package configuration merges an ordered set of configuration providers
// into one lookup surface.
//
// Providers are registered once at startup through a Builder:
//
//	b := configuration.NewBuilder()
//	_ = b.ConfigureLogging(logging.ComponentFactory(logger))
//	if err := b.AddProvider(defaults); err != nil { ... }
//	if err := b.AddProvider(env); err != nil { ... }
//	svc := b.Build()
//
// Unless Options.AllowDuplicateKeysInDifferentProviders is set, a provider
// whose keys overlap an already-registered provider is rejected with a
// *domain.DuplicateKeyError listing every conflicting (provider, key) pair.
// Lookups return the value from the first provider, in registration order,
// that owns the key. Values are never cached; every read hits the provider.
package configuration

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// LoggerFactory creates a logger for the named component.
type LoggerFactory func(component string) *slog.Logger

// Options controls provider registration.
type Options struct {
	// AllowDuplicateKeysInDifferentProviders disables duplicate-key rejection.
	// Lookups then resolve to the earliest-registered owner.
	AllowDuplicateKeysInDifferentProviders bool
}

// Builder owns registration options and the single Service it produces.
type Builder struct {
	Options Options

	mu                sync.Mutex
	createLogger      LoggerFactory
	loggingConfigured bool
	service           *Service
}

// NewBuilder creates a Builder with default options and a discard logger
// factory.
func NewBuilder() *Builder {
	return &Builder{
		createLogger: func(string) *slog.Logger {
			return slog.New(slog.DiscardHandler)
		},
	}
}

// ConfigureLogging sets the logger factory used by the Service. It may be
// called once; later calls return domain.ErrConflict. It must be called
// before Build for the Service to pick up the factory.
func (b *Builder) ConfigureLogging(factory LoggerFactory) error {
	if factory == nil {
		return fmt.Errorf("%w: logger factory must not be nil", domain.ErrInvalidArgument)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.loggingConfigured {
		return fmt.Errorf("%w: logging already configured", domain.ErrConflict)
	}
	b.createLogger = factory
	b.loggingConfigured = true
	return nil
}

// CreateLogger returns a logger for the named component from the configured
// factory.
func (b *Builder) CreateLogger(component string) *slog.Logger {
	b.mu.Lock()
	factory := b.createLogger
	b.mu.Unlock()
	return factory(component)
}

// Build returns the Service owned by this builder. Every call returns the
// same instance.
func (b *Builder) Build() *Service {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.service == nil {
		b.service = newService(b.createLogger("configuration"))
	}
	return b.service
}

// AddProvider registers p with the built Service using this builder's
// options.
func (b *Builder) AddProvider(p ports.ConfigurationProvider) error {
	_, err := b.Build().RegisterProvider(b, p)
	return err
}

// AddProviders registers each provider in order and stops at the first
// failure.
func (b *Builder) AddProviders(providers ...ports.ConfigurationProvider) error {
	for _, p := range providers {
		if err := b.AddProvider(p); err != nil {
			return err
		}
	}
	return nil
}

var errNilProvider = errors.New("provider must not be nil")
