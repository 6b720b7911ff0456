package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	s := New()

	if s.Exists(EmailKey) {
		t.Fatal("Exists() should be false before Set")
	}

	if err := s.Set(EmailKey, "me@example.com"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := s.Get(EmailKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "me@example.com" {
		t.Errorf("Get() = %q, want %q", got, "me@example.com")
	}

	if err := s.Delete(EmailKey); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(EmailKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteMissing(t *testing.T) {
	keyring.MockInit()

	if err := New().Delete("absent"); err != nil {
		t.Errorf("Delete() of a missing key error = %v", err)
	}
}

func TestStore_Validation(t *testing.T) {
	keyring.MockInit()
	s := New()

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"empty key", "", "value"},
		{"empty value", EmailKey, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Set(tt.key, tt.value); err == nil {
				t.Error("Set() should fail")
			}
		})
	}

	if _, err := s.Get(""); err == nil {
		t.Error("Get(\"\") should fail")
	}
}

func TestStore_Unavailable(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	s := New()

	if err := s.Set(EmailKey, "me@example.com"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Set() error = %v, want ErrUnavailable", err)
	}
	if _, err := s.Get(EmailKey); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Get() error = %v, want ErrUnavailable", err)
	}
}
