package configuration

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

// Compile-time check that Service implements ports.ConfigurationDiagnostics.
var _ ports.ConfigurationDiagnostics = (*Service)(nil)

// Service resolves keys across registered providers. Registration is meant
// to happen once at startup; reads afterwards are safe for concurrent use.
type Service struct {
	mu        sync.RWMutex
	providers []ports.ConfigurationProvider
	logger    *slog.Logger
}

func newService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// RegisterProvider appends provider to the service. Unless the builder's
// options allow duplicates, the provider is rejected with a
// *domain.DuplicateKeyError when any of its keys is already owned by a
// registered provider. A rejected registration leaves the service unchanged.
// Errors from the providers' Keys calls are returned unchanged.
func (s *Service) RegisterProvider(b *Builder, provider ports.ConfigurationProvider) (*Service, error) {
	if b == nil {
		return s, fmt.Errorf("%w: builder must not be nil", domain.ErrInvalidArgument)
	}
	if provider == nil {
		return s, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, errNilProvider)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := provider.ProviderID()
	for _, existing := range s.providers {
		if existing.ProviderID() == id {
			return s, fmt.Errorf("%w: provider %q already registered", domain.ErrConflict, id)
		}
	}

	if !b.Options.AllowDuplicateKeysInDifferentProviders {
		conflicts, err := s.conflicts(provider)
		if err != nil {
			return s, err
		}
		if len(conflicts) > 0 {
			s.logger.Error("rejected provider with duplicate keys",
				slog.String("operation", "RegisterProvider"),
				slog.String("provider_id", id),
				slog.Int("conflicts", len(conflicts)),
			)
			return s, &domain.DuplicateKeyError{ProviderID: id, Conflicts: conflicts}
		}
	}

	s.providers = append(s.providers, provider)
	s.logger.Debug("registered configuration provider",
		slog.String("provider_id", id),
		slog.Int("position", len(s.providers)-1),
	)
	return s, nil
}

// conflicts intersects provider's keys with every registered provider's
// keys. Caller must hold s.mu.
func (s *Service) conflicts(provider ports.ConfigurationProvider) ([]domain.KeyConflict, error) {
	if len(s.providers) == 0 {
		return nil, nil
	}

	newKeys, err := provider.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing keys of provider %q: %w", provider.ProviderID(), err)
	}
	incoming := make(map[string]struct{}, len(newKeys))
	for _, k := range newKeys {
		incoming[k] = struct{}{}
	}

	var conflicts []domain.KeyConflict
	for _, existing := range s.providers {
		keys, err := existing.Keys()
		if err != nil {
			return nil, fmt.Errorf("listing keys of provider %q: %w", existing.ProviderID(), err)
		}
		sorted := slices.Clone(keys)
		slices.Sort(sorted)
		for _, k := range sorted {
			if _, ok := incoming[k]; ok {
				conflicts = append(conflicts, domain.KeyConflict{ProviderID: existing.ProviderID(), Key: k})
			}
		}
	}
	return conflicts, nil
}

// snapshot returns the registered providers in registration order.
func (s *Service) snapshot() []ports.ConfigurationProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.providers)
}

// owner returns the first provider, in registration order, whose key set
// contains key. It returns nil when no provider owns key.
func (s *Service) owner(key string) (ports.ConfigurationProvider, error) {
	for _, p := range s.snapshot() {
		keys, err := p.Keys()
		if err != nil {
			return nil, fmt.Errorf("listing keys of provider %q: %w", p.ProviderID(), err)
		}
		if slices.Contains(keys, key) {
			return p, nil
		}
	}
	return nil, nil
}

// Get returns the value of key from its first owner. found is false when no
// provider owns key; unknown keys are not an error.
func (s *Service) Get(key string) (string, bool, error) {
	p, err := s.owner(key)
	if err != nil || p == nil {
		return "", false, err
	}

	value, found, err := p.Get(key)
	if err != nil {
		return "", false, fmt.Errorf("reading %q from provider %q: %w", key, p.ProviderID(), err)
	}
	return value, found, nil
}

// Set writes value through the first provider that owns key. It returns a
// *domain.KeyNotFoundError when no provider owns key; keys are never created
// implicitly.
func (s *Service) Set(key, value string) error {
	p, err := s.owner(key)
	if err != nil {
		return err
	}
	if p == nil {
		return &domain.KeyNotFoundError{Key: key}
	}

	if err := p.Set(key, value); err != nil {
		return fmt.Errorf("writing %q to provider %q: %w", key, p.ProviderID(), err)
	}
	s.logger.Debug("configuration key updated",
		slog.String("provider_id", p.ProviderID()),
		slog.String("key", key),
		slog.String("value", value),
	)
	return nil
}

// ReadKey is equivalent to Get.
func (s *Service) ReadKey(key string) (string, bool, error) {
	return s.Get(key)
}

// ReadKeyAsync runs Get on its own goroutine and delivers exactly one result
// on the returned channel. The read is not cancellable.
func (s *Service) ReadKeyAsync(key string) <-chan ReadResult {
	return readAsync(s.Get, key)
}

// List returns every provider's diagnostic entries prefixed with the
// provider id.
func (s *Service) List() ([]string, error) {
	return s.prefixed(func(p ports.ConfigurationProvider) ([]string, error) {
		return p.List()
	})
}

// Keys returns every provider's keys prefixed with the provider id. Keys
// owned by more than one provider appear once per owner.
func (s *Service) Keys() ([]string, error) {
	return s.prefixed(func(p ports.ConfigurationProvider) ([]string, error) {
		return p.Keys()
	})
}

// ProviderList returns one entry per provider in registration order.
func (s *Service) ProviderList() ([]string, error) {
	providers := s.snapshot()
	out := make([]string, 0, len(providers))
	for _, p := range providers {
		keys, err := p.Keys()
		if err != nil {
			return nil, fmt.Errorf("listing keys of provider %q: %w", p.ProviderID(), err)
		}
		out = append(out, fmt.Sprintf("%s: %d keys", p.ProviderID(), len(keys)))
	}
	return out, nil
}

// Providers returns the registered providers in registration order.
func (s *Service) Providers() []ports.ConfigurationProvider {
	return s.snapshot()
}

func (s *Service) prefixed(entries func(ports.ConfigurationProvider) ([]string, error)) ([]string, error) {
	var out []string
	for _, p := range s.snapshot() {
		list, err := entries(p)
		if err != nil {
			return nil, fmt.Errorf("listing provider %q: %w", p.ProviderID(), err)
		}
		for _, e := range list {
			out = append(out, p.ProviderID()+": "+e)
		}
	}
	return out, nil
}
