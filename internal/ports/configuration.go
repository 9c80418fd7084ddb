package ports

// ConfigurationProvider is a single named source of configuration key/value
// pairs. Implementations: in-memory, YAML file, and environment variables.
// Provider-specific failures (missing file, unreadable source) may surface
// from Keys, List, and Get.
type ConfigurationProvider interface {
	// ProviderID returns the identifier assigned at construction. It is
	// stable for the provider's lifetime.
	ProviderID() string

	// Keys returns the authoritative key set used for routing and duplicate
	// detection.
	Keys() ([]string, error)

	// List returns free-form diagnostic entries describing the provider's
	// contents. Entries need not map one-to-one to keys.
	List() ([]string, error)

	// Get returns the value stored under key. found is false when the
	// provider does not hold the key.
	Get(key string) (value string, found bool, err error)

	// Set stores value under key with provider-local semantics.
	Set(key, value string) error
}
