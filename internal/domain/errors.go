package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("unavailable")
)

// KeyConflict identifies a key that an already-registered provider owns.
type KeyConflict struct {
	ProviderID string
	Key        string
}

// DuplicateKeyError is returned when a provider is registered whose keys
// overlap keys owned by providers already registered with the service.
// Conflicts lists every overlapping (provider, key) pair, not just the first.
type DuplicateKeyError struct {
	ProviderID string
	Conflicts  []KeyConflict
}

func (e *DuplicateKeyError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%q already provided by %q", c.Key, c.ProviderID))
	}
	return fmt.Sprintf("%s: duplicate keys in provider %q: %s",
		ErrConflict.Error(), e.ProviderID, strings.Join(parts, "; "))
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrConflict
}

// KeyNotFoundError is returned when writing a key that no registered
// provider owns.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("%s: no provider owns key %q", ErrNotFound.Error(), e.Key)
}

func (e *KeyNotFoundError) Unwrap() error {
	return ErrNotFound
}
