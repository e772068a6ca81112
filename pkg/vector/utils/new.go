// Package vectorutils builds a vector.Driver from configuration.
package vectorutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/newsvec/pkg/vector"
	"github.com/papercomputeco/newsvec/pkg/vector/chroma"
	"github.com/papercomputeco/newsvec/pkg/vector/inmemory"
	"github.com/papercomputeco/newsvec/pkg/vector/postgres"
	"github.com/papercomputeco/newsvec/pkg/vector/qdrant"
	"github.com/papercomputeco/newsvec/pkg/vector/sqlitevec"
)

// Supported vector store providers.
const (
	ProviderMemory    = "memory"
	ProviderChroma    = "chroma"
	ProviderSQLiteVec = "sqlite"
	ProviderQdrant    = "qdrant"
	ProviderPostgres  = "postgres"
)

// Providers lists every supported provider name.
var Providers = []string{ProviderMemory, ProviderChroma, ProviderSQLiteVec, ProviderQdrant, ProviderPostgres}

type NewVectorDriverOpts struct {
	// ProviderType selects the driver.
	ProviderType string

	// Target is the server URL, gRPC target or connection string.
	Target string

	// Path is the database file for the sqlite provider.
	Path string

	// APIKey is used by providers that accept one (qdrant).
	APIKey string

	Logger *slog.Logger
}

func NewVectorDriver(ctx context.Context, o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case ProviderMemory, "inmemory":
		return inmemory.NewDriver(o.Logger), nil
	case ProviderChroma:
		return chroma.NewDriver(chroma.Config{
			URL: o.Target,
		}, o.Logger)
	case ProviderSQLiteVec, "sqlitevec":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath: o.Path,
		}, o.Logger)
	case ProviderQdrant:
		return qdrant.NewDriver(qdrant.Config{
			Target: o.Target,
			APIKey: o.APIKey,
		}, o.Logger)
	case ProviderPostgres:
		return postgres.NewDriver(ctx, o.Target, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
