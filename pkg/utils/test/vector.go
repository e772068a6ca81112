package testutils

import (
	"context"
	"fmt"

	"github.com/papercomputeco/newsvec/pkg/logger"
	"github.com/papercomputeco/newsvec/pkg/vector"
	"github.com/papercomputeco/newsvec/pkg/vector/inmemory"
)

// MockVectorDriver is a test vector driver backed by the in-memory driver
// with injectable failures.
type MockVectorDriver struct {
	*inmemory.Driver

	// GetErr, CreateErr and DeleteErr replace the result of the matching call.
	GetErr    error
	CreateErr error
	DeleteErr error

	// UpsertErr and QueryErr fail collection calls on handles from this driver.
	UpsertErr error
	QueryErr  error

	GetCalls    int
	CreateCalls int
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Driver: inmemory.NewDriver(logger.Nop()),
	}
}

// ErrUnreachable is a stand-in for a store connectivity failure.
var ErrUnreachable = fmt.Errorf("%w: mock store unreachable", vector.ErrConnection)

func (m *MockVectorDriver) GetCollection(ctx context.Context, name string) (vector.Collection, error) {
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	c, err := m.Driver.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	return &mockCollection{Collection: c, driver: m}, nil
}

func (m *MockVectorDriver) CreateCollection(ctx context.Context, name string, cfg vector.CollectionConfig) (vector.Collection, error) {
	m.CreateCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	c, err := m.Driver.CreateCollection(ctx, name, cfg)
	if err != nil {
		return nil, err
	}
	return &mockCollection{Collection: c, driver: m}, nil
}

func (m *MockVectorDriver) DeleteCollection(ctx context.Context, name string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	return m.Driver.DeleteCollection(ctx, name)
}

type mockCollection struct {
	vector.Collection
	driver *MockVectorDriver
}

func (c *mockCollection) Upsert(ctx context.Context, records []vector.Record) error {
	if c.driver.UpsertErr != nil {
		return c.driver.UpsertErr
	}
	return c.Collection.Upsert(ctx, records)
}

func (c *mockCollection) Query(ctx context.Context, embedding []float32, n int) ([]vector.Hit, error) {
	if c.driver.QueryErr != nil {
		return nil, c.driver.QueryErr
	}
	return c.Collection.Query(ctx, embedding, n)
}
