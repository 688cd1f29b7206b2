package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned for object names that would escape the store root
var ErrInvalidName = errors.New("invalid object name")

// Provider defines the interface for artifact storage backends
type Provider interface {
	// Save writes data under name and returns the location of the stored object
	Save(ctx context.Context, name string, data []byte) (string, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Service provides artifact persistence with provider switching
type Service struct {
	provider     Provider
	providerName string
}

// NewService creates a new storage service
func NewService(provider Provider) *Service {
	return &Service{
		provider:     provider,
		providerName: provider.GetProviderName(),
	}
}

// Save stores data using the configured provider
func (s *Service) Save(ctx context.Context, name string, data []byte) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("storage provider not configured")
	}
	if err := validateName(name); err != nil {
		return "", err
	}

	return s.provider.Save(ctx, name, data)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	return s.providerName
}

// validateName only accepts flat names: no separators, no dot segments
func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
