package configuration

import "github.com/jsamuelsen11/go-job-core/internal/ports"

// ReadResult is the outcome of an asynchronous read.
type ReadResult struct {
	Value string
	Found bool
	Err   error
}

// ReadKey reads key from a single provider. It is equivalent to p.Get.
func ReadKey(p ports.ConfigurationProvider, key string) (string, bool, error) {
	return p.Get(key)
}

// ReadKeyAsync reads key from a single provider on its own goroutine and
// delivers exactly one result on the returned channel.
func ReadKeyAsync(p ports.ConfigurationProvider, key string) <-chan ReadResult {
	return readAsync(p.Get, key)
}

func readAsync(get func(string) (string, bool, error), key string) <-chan ReadResult {
	ch := make(chan ReadResult, 1)
	go func() {
		defer close(ch)
		value, found, err := get(key)
		ch <- ReadResult{Value: value, Found: found, Err: err}
	}()
	return ch
}
