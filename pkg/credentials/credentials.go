// Package credentials stores provider API keys in credentials.toml inside the
// .newsvec/ directory and resolves them against the environment.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/newsvec/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

var (
	// ErrUnsupportedProvider is returned when storing a key for an unknown provider.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrEmptyKey is returned when storing a blank key.
	ErrEmptyKey = errors.New("API key cannot be empty")
)

// providers is every provider a key can be stored for, in display order.
var providers = []Provider{
	{Name: "openai", EnvVar: "OPENAI_API_KEY", Usage: "OpenAI embeddings and enrichment"},
	{Name: "qdrant", EnvVar: "QDRANT_API_KEY", Usage: "Qdrant Cloud vector store"},
}

// Manager reads and writes credentials.toml.
type Manager struct {
	targetPath string
}

// NewManager creates a Manager for the .newsvec/ directory resolved from
// override.
func NewManager(override string) (*Manager, error) {
	target, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}

	return &Manager{targetPath: filepath.Join(target, credentialsFile)}, nil
}

// Load reads credentials.toml. A missing file yields empty credentials.
func (m *Manager) Load() (*Credentials, error) {
	creds := &Credentials{Version: currentVersion}

	data, err := os.ReadFile(m.targetPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading credentials: %w", err)
	default:
		if err := toml.Unmarshal(data, creds); err != nil {
			return nil, fmt.Errorf("parsing credentials: %w", err)
		}
		if creds.Version != currentVersion {
			return nil, fmt.Errorf("unsupported credentials version %d (expected %d)", creds.Version, currentVersion)
		}
	}

	if creds.Providers == nil {
		creds.Providers = make(map[string]ProviderCredential)
	}
	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions. The file
// is replaced atomically so a failed write never leaves a truncated file.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.targetPath), ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.targetPath); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// update applies fn to the stored credentials and saves the result.
func (m *Manager) update(fn func(*Credentials)) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}
	fn(creds)
	return m.Save(creds)
}

// SetKey stores key for provider.
func (m *Manager) SetKey(provider, key string) error {
	if !IsSupportedProvider(provider) {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
	if key == "" {
		return ErrEmptyKey
	}

	return m.update(func(c *Credentials) {
		c.Providers[provider] = ProviderCredential{APIKey: key, UpdatedAt: time.Now().UTC()}
	})
}

// RemoveKey deletes the stored key for provider. Removing a key that is not
// stored succeeds.
func (m *Manager) RemoveKey(provider string) error {
	return m.update(func(c *Credentials) {
		delete(c.Providers, provider)
	})
}

// GetKey returns the stored key for provider, or "" when none is stored.
func (m *Manager) GetKey(provider string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}
	return creds.Providers[provider].APIKey, nil
}

// Resolve returns the key for provider. The provider's environment variable
// wins over the stored key.
func (m *Manager) Resolve(provider string) (Key, error) {
	if env := EnvVarForProvider(provider); env != "" {
		if v := os.Getenv(env); v != "" {
			return Key{Value: v, Source: SourceEnv}, nil
		}
	}

	stored, err := m.GetKey(provider)
	if err != nil {
		return Key{}, err
	}
	if stored == "" {
		return Key{}, nil
	}
	return Key{Value: stored, Source: SourceFile}, nil
}

// ResolveKey is Resolve without the source.
func (m *Manager) ResolveKey(provider string) (string, error) {
	k, err := m.Resolve(provider)
	return k.Value, err
}

// ListProviders returns the sorted names of providers with a stored key.
func (m *Manager) ListProviders() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(creds.Providers))
	for name := range creds.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetTarget returns the path of credentials.toml.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

// Providers returns every supported provider.
func Providers() []Provider {
	return slices.Clone(providers)
}

// LookupProvider returns the provider named name.
func LookupProvider(name string) (Provider, bool) {
	i := slices.IndexFunc(providers, func(p Provider) bool { return p.Name == name })
	if i < 0 {
		return Provider{}, false
	}
	return providers[i], true
}

// EnvVarForProvider returns the environment variable of provider, or "".
func EnvVarForProvider(provider string) string {
	p, _ := LookupProvider(provider)
	return p.EnvVar
}

// SupportedProviders returns the names of every supported provider.
func SupportedProviders() []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name
	}
	return names
}

// IsSupportedProvider reports whether a key can be stored for provider.
func IsSupportedProvider(provider string) bool {
	_, ok := LookupProvider(provider)
	return ok
}
