// Package qdrant provides a Qdrant vector driver over the gRPC client.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/papercomputeco/newsvec/pkg/vector"
)

// DefaultPort is the Qdrant gRPC port.
const DefaultPort = 6334

// Payload keys.
const (
	payloadID       = "record_id"
	payloadDocument = "document"
	payloadMetadata = "metadata"
)

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Target is "host:port", a bare host, or a URL such as
	// "https://xyz.cloud.qdrant.io:6334". An https scheme enables TLS.
	Target string

	// APIKey is sent with every request when set.
	APIKey string
}

// Driver implements vector.Driver on Qdrant.
type Driver struct {
	client *qdrant.Client
	logger *slog.Logger
}

// NewDriver creates a Qdrant client. The gRPC connection is established lazily.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.Target == "" {
		return nil, fmt.Errorf("qdrant target is required")
	}

	host, port, useTLS, err := parseTarget(c.Target)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: c.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating qdrant client: %w", vector.ErrConnection, err)
	}

	logger.Info("qdrant vector driver initialized", "host", host, "port", port, "tls", useTLS)

	return &Driver{client: client, logger: logger}, nil
}

func parseTarget(target string) (string, int, bool, error) {
	useTLS := false
	hostport := target

	if u, err := url.Parse(target); err == nil && u.Scheme != "" && u.Host != "" {
		useTLS = u.Scheme == "https"
		hostport = u.Host
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		// no port
		return hostport, DefaultPort, useTLS, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, false, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}
	return host, port, useTLS, nil
}

// GetCollection returns an existing collection. Qdrant keeps only the vector
// size, so provider and model are left empty on the returned config.
func (d *Driver) GetCollection(ctx context.Context, name string) (vector.Collection, error) {
	exists, err := d.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: checking collection %q: %w", vector.ErrConnection, name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}

	info, err := d.client.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("getting collection %q: %w", name, err)
	}

	cfg := vector.CollectionConfig{
		Dimensions: uint(info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()),
	}
	return &Collection{driver: d, name: name, config: cfg}, nil
}

// CreateCollection creates a cosine collection sized to cfg.Dimensions.
func (d *Driver) CreateCollection(ctx context.Context, name string, cfg vector.CollectionConfig) (vector.Collection, error) {
	if cfg.Dimensions == 0 {
		return nil, fmt.Errorf("qdrant collection dimensions cannot be 0, must be configured")
	}

	exists, err := d.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: checking collection %q: %w", vector.ErrConnection, name, err)
	}

	if !exists {
		err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(cfg.Dimensions),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("creating collection %q: %w", name, err)
		}

		d.logger.Info("created qdrant collection", "collection", name, "dimensions", cfg.Dimensions)
	}

	return &Collection{driver: d, name: name, config: cfg}, nil
}

// DeleteCollection drops a collection.
func (d *Driver) DeleteCollection(ctx context.Context, name string) error {
	exists, err := d.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: checking collection %q: %w", vector.ErrConnection, name, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}

	if err := d.client.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}

	d.logger.Debug("deleted qdrant collection", "collection", name)
	return nil
}

// Close closes the gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

// Collection is a handle to one Qdrant collection.
type Collection struct {
	driver *Driver
	name   string
	config vector.CollectionConfig
}

func (c *Collection) Name() string                    { return c.name }
func (c *Collection) Config() vector.CollectionConfig { return c.config }

// PointID maps a record id onto a Qdrant point id. Record ids that are not
// UUIDs (a 32 character hex digest is) get a name-based UUID.
func PointID(recordID string) string {
	if id, err := uuid.Parse(recordID); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(recordID)).String()
}

// Upsert stores records as points; the payload carries the record itself.
func (c *Collection) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, r := range records {
		meta := make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			meta[k] = v
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(PointID(r.ID)),
			Vectors: qdrant.NewVectors(r.Embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadID:       r.ID,
				payloadDocument: r.Document,
				payloadMetadata: meta,
			}),
		})
	}

	wait := true
	if _, err := c.driver.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.name,
		Wait:           &wait,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upserting into %q: %w", c.name, err)
	}

	c.driver.logger.Debug("upserted records to qdrant",
		"collection", c.name,
		"count", len(records),
	)

	return nil
}

// scrollPageSize is the number of points fetched per scroll request.
var scrollPageSize uint32 = 256

// GetAll scrolls through every point in the collection, one page at a time,
// until qdrant reports no next page.
func (c *Collection) GetAll(ctx context.Context) ([]vector.Record, error) {
	records := make([]vector.Record, 0)

	var offset *qdrant.PointId
	for {
		resp, err := c.driver.client.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: c.name,
			Offset:         offset,
			Limit:          qdrant.PtrOf(scrollPageSize),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("scrolling %q: %w", c.name, err)
		}

		for _, p := range resp.GetResult() {
			records = append(records, recordFromPayload(p.GetPayload()))
		}

		offset = resp.GetNextPageOffset()
		if offset == nil {
			return records, nil
		}
	}
}

// Query finds the n nearest points. Qdrant scores cosine collections by
// similarity, so distance is 1 - score.
func (c *Collection) Query(ctx context.Context, embedding []float32, n int) ([]vector.Hit, error) {
	hits := make([]vector.Hit, 0)
	if n <= 0 {
		return hits, nil
	}

	scored, err := c.driver.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.name,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(n)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", c.name, err)
	}

	for _, p := range scored {
		hits = append(hits, vector.Hit{
			Record:   recordFromPayload(p.GetPayload()),
			Distance: 1 - float64(p.GetScore()),
		})
	}

	c.driver.logger.Debug("queried qdrant",
		"collection", c.name,
		"results", len(hits),
	)

	return hits, nil
}

// Count returns the exact number of points.
func (c *Collection) Count(ctx context.Context) (int, error) {
	n, err := c.driver.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: c.name,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting %q: %w", c.name, err)
	}
	return int(n), nil
}

func recordFromPayload(payload map[string]*qdrant.Value) vector.Record {
	r := vector.Record{
		ID:       payload[payloadID].GetStringValue(),
		Document: payload[payloadDocument].GetStringValue(),
		Metadata: map[string]string{},
	}
	for k, v := range payload[payloadMetadata].GetStructValue().GetFields() {
		r.Metadata[k] = v.GetStringValue()
	}
	return r
}
