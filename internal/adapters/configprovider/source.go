// Package configprovider implements ports.ConfigurationProvider on top of
// koanf. Three variants share one lazily-loaded koanf instance:
//
//	configprovider.NewMemory("defaults", map[string]string{"job.enabled": "true"})
//	configprovider.NewFile("settings", "configs/settings.yaml")
//	configprovider.NewEnv("env", "JOB_")
//
// Construction is inert. Sources are read by an explicit Initialize call or,
// failing that, on the first Keys, List, Get, or Set call; a source that
// cannot be read returns its error from those calls every time until it can.
// Keys are koanf's flattened, dot-delimited leaf paths. A key can therefore
// not also be the parent of another key: "a" and "a.b" in one flat source
// is a load error wrapping domain.ErrConflict.
package configprovider

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"

	"github.com/jsamuelsen11/go-job-core/internal/domain"
	"github.com/jsamuelsen11/go-job-core/internal/ports"
)

const delim = "."

// Compile-time interface checks.
var (
	_ ports.ConfigurationProvider = (*Memory)(nil)
	_ ports.ConfigurationProvider = (*File)(nil)
	_ ports.ConfigurationProvider = (*Env)(nil)
)

// source is the koanf-backed core shared by every provider variant.
type source struct {
	id     string
	origin string
	load   func(k *koanf.Koanf) error

	mu     sync.RWMutex
	k      *koanf.Koanf
	loaded bool
}

func newSource(id, origin string, load func(*koanf.Koanf) error) *source {
	if id == "" {
		id = uuid.NewString()
	}
	return &source{id: id, origin: origin, load: load}
}

// ProviderID returns the provider's identifier.
func (s *source) ProviderID() string {
	return s.id
}

// Initialize reads the underlying source. It is a no-op once a read has
// succeeded.
func (s *source) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Reload discards the current contents, including values written with Set,
// and reads the underlying source again. On failure the previous contents
// are kept.
func (s *source) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := koanf.New(delim)
	if err := s.load(k); err != nil {
		return fmt.Errorf("reloading %s: %w", s.origin, err)
	}
	s.k = k
	s.loaded = true
	return nil
}

func (s *source) loadLocked() error {
	if s.loaded {
		return nil
	}
	k := koanf.New(delim)
	if err := s.load(k); err != nil {
		return fmt.Errorf("loading %s: %w", s.origin, err)
	}
	s.k = k
	s.loaded = true
	return nil
}

// ensureLoaded loads the source on first use and returns the koanf instance
// under a read lock. The caller must call s.mu.RUnlock.
func (s *source) ensureLoaded() (*koanf.Koanf, error) {
	s.mu.RLock()
	if s.loaded {
		return s.k, nil
	}
	s.mu.RUnlock()

	if err := s.Initialize(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	return s.k, nil
}

// Keys returns the flattened leaf keys, sorted.
func (s *source) Keys() ([]string, error) {
	k, err := s.ensureLoaded()
	if err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()
	return k.Keys(), nil
}

// List returns one entry per key naming the key and where it came from.
func (s *source) List() ([]string, error) {
	k, err := s.ensureLoaded()
	if err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	keys := k.Keys()
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, fmt.Sprintf("%s (%s)", key, s.origin))
	}
	return out, nil
}

// Get returns the string form of a leaf value. Intermediate paths (maps)
// are not keys and report found=false.
func (s *source) Get(key string) (string, bool, error) {
	k, err := s.ensureLoaded()
	if err != nil {
		return "", false, err
	}
	defer s.mu.RUnlock()

	v := k.Get(key)
	if v == nil {
		return "", false, nil
	}
	if _, isMap := v.(map[string]any); isMap {
		return "", false, nil
	}
	return k.String(key), true, nil
}

// Set stores value in memory. Values are not written back to the
// underlying source.
func (s *source) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("provider %q: key must not be empty", s.id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}
	if err := collides(s.k, key); err != nil {
		return fmt.Errorf("provider %q: %w", s.id, err)
	}
	if err := s.k.Set(key, value); err != nil {
		return fmt.Errorf("provider %q: setting %q: %w", s.id, key, err)
	}
	return nil
}

// checkPaths reports a key in keys that is also a dotted parent of another.
func checkPaths(keys []string) error {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[key] = struct{}{}
	}
	for _, key := range keys {
		for _, parent := range parents(key) {
			if _, ok := set[parent]; ok {
				return pathConflict(parent, key)
			}
		}
	}
	return nil
}

// collides reports whether setting key on k would replace a subtree or
// write beneath an existing leaf.
func collides(k *koanf.Koanf, key string) error {
	if _, isMap := k.Get(key).(map[string]any); isMap {
		return pathConflict(key, key+delim+"*")
	}
	for _, parent := range parents(key) {
		if v := k.Get(parent); v != nil {
			if _, isMap := v.(map[string]any); !isMap {
				return pathConflict(parent, key)
			}
		}
	}
	return nil
}

// parents returns every dotted prefix of key, shortest first:
// "a.b.c" yields "a" and "a.b".
func parents(key string) []string {
	var out []string
	for i := range len(key) {
		if strings.HasPrefix(key[i:], delim) {
			out = append(out, key[:i])
		}
	}
	return out
}

func pathConflict(leaf, child string) error {
	return fmt.Errorf("%w: key %q is a value and also the parent of %q", domain.ErrConflict, leaf, child)
}
