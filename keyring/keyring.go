// Package keyring keeps small secrets, such as the remembered vault
// email, in the system keyring (Secret Service on Linux).
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/yllada/bitvpn/common"
)

// EmailKey is the entry holding the remembered vault email.
const EmailKey = "bw-email"

// Common errors returned by keyring operations.
var (
	ErrNotFound    = errors.New("credential not found")
	ErrUnavailable = errors.New("keyring service unavailable")
)

// Store reads and writes entries of one keyring service.
type Store struct {
	service string
}

// New returns a Store for the application's keyring service.
func New() *Store {
	return &Store{service: common.AppName}
}

// Set saves value under key.
func (s *Store) Set(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if value == "" {
		return errors.New("value cannot be empty")
	}

	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get returns the value saved under key.
func (s *Store) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("key cannot be empty")
	}

	value, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

// Delete removes key. Removing a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := keyring.Delete(s.service, key)
	if err == nil || errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// Exists checks if key holds a value.
func (s *Store) Exists(key string) bool {
	_, err := s.Get(key)
	return err == nil
}
