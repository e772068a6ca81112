package credentials

import "time"

// Credentials is the content of credentials.toml.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential is the stored secret of one provider.
type ProviderCredential struct {
	APIKey    string    `toml:"api_key"`
	UpdatedAt time.Time `toml:"updated_at,omitempty"`
}

// Provider describes a service newsvec can hold a key for.
type Provider struct {
	Name   string
	EnvVar string

	// Usage is a short description shown by the auth command.
	Usage string
}

// KeySource says where a resolved key came from.
type KeySource string

const (
	SourceNone KeySource = ""
	SourceEnv  KeySource = "env"
	SourceFile KeySource = "file"
)

// Key is a resolved API key.
type Key struct {
	Value  string
	Source KeySource
}
