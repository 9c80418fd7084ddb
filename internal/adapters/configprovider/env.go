package configprovider

import (
	"strings"

	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
)

// Env is a provider backed by environment variables sharing a prefix.
//
// Variable names map to keys by stripping the prefix, lowercasing, and
// turning underscores into dots:
//
//	JOB_WINDOW_ENABLED -> window.enabled
//	JOB_LOG            -> log
//
// JOB_LOG and JOB_LOG_LEVEL together are a conflict reported on first use.
type Env struct {
	*source
	prefix string
}

// NewEnv creates an inert provider over variables starting with prefix.
// The environment is read by Initialize or on first use. An empty id is
// replaced with a generated one.
func NewEnv(id, prefix string) *Env {
	return &Env{
		source: newSource(id, "env "+prefix+"*", func(k *koanf.Koanf) error {
			var keys []string
			err := k.Load(env.Provider(delim, env.Opt{
				Prefix: prefix,
				TransformFunc: func(name, value string) (string, any) {
					key := envKey(prefix, name)
					keys = append(keys, key)
					return key, value
				},
			}), nil)
			if err != nil {
				return err
			}
			return checkPaths(keys)
		}),
		prefix: prefix,
	}
}

// Prefix returns the variable prefix.
func (e *Env) Prefix() string {
	return e.prefix
}

func envKey(prefix, name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, prefix))
	return strings.ReplaceAll(key, "_", delim)
}
