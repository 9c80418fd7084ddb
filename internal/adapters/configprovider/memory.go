package configprovider

import (
	"maps"
	"slices"

	"github.com/knadh/koanf/v2"
)

// Memory is a provider backed by an in-process map. It suits defaults and
// test overrides.
type Memory struct {
	*source
}

// NewMemory creates an in-memory provider seeded with values. An empty id
// is replaced with a generated one. values is copied. Seeding "a" together
// with "a.b" fails on first use.
func NewMemory(id string, values map[string]string) *Memory {
	seed := maps.Clone(values)
	return &Memory{source: newSource(id, "memory", func(k *koanf.Koanf) error {
		keys := slices.Sorted(maps.Keys(seed))
		if err := checkPaths(keys); err != nil {
			return err
		}
		for _, key := range keys {
			if err := k.Set(key, seed[key]); err != nil {
				return err
			}
		}
		return nil
	})}
}
