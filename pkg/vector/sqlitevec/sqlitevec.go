// Package sqlitevec provides a SQLite-backed vector driver using sqlite-vec.
package sqlitevec

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/newsvec/pkg/vector"
)

// maxK is the largest k a vec0 KNN query accepts.
const maxK = 4096

// Driver implements vector.Driver using SQLite with sqlite-vec.
// Each collection gets its own vec0 table; documents and metadata live in a
// shared table keyed by collection.
type Driver struct {
	db     *sql.DB
	logger *slog.Logger
}

// Config holds configuration for the SQLite vec driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string
}

// NewDriver opens the database and creates the catalog tables.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: ":memory:" databases are per connection and vec0 tables
	// are created on the fly.
	db.SetMaxOpenConns(1)

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vec_collections (
			name TEXT PRIMARY KEY,
			table_name TEXT NOT NULL UNIQUE,
			provider TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			dimensions INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating collections table: %w", err)
	}

	// vec0 virtual tables use integer rowids, so documents map string ids to
	// the rowid shared with the collection's vec0 table.
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vec_documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			document TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			UNIQUE (collection, doc_id)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	logger.Info("sqlite-vec vector driver initialized",
		"db_path", c.DBPath,
		"vec_version", vecVersion,
	)

	return &Driver{
		db:     db,
		logger: logger,
	}, nil
}

// tableName derives a safe vec0 table name from a collection name.
func tableName(collection string) string {
	sum := sha256.Sum256([]byte(collection))
	return "vec_embeddings_" + hex.EncodeToString(sum[:8])
}

// GetCollection loads a collection from the catalog.
func (d *Driver) GetCollection(ctx context.Context, name string) (vector.Collection, error) {
	c := &Collection{driver: d, name: name}

	err := d.db.QueryRowContext(ctx,
		`SELECT table_name, provider, model, dimensions FROM vec_collections WHERE name = ?`, name,
	).Scan(&c.table, &c.config.Provider, &c.config.Model, &c.config.Dimensions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection %q: %w", name, err)
	}

	return c, nil
}

// CreateCollection registers a collection and creates its cosine vec0 table.
// An existing collection is returned unchanged.
func (d *Driver) CreateCollection(ctx context.Context, name string, cfg vector.CollectionConfig) (vector.Collection, error) {
	if cfg.Dimensions == 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	if existing, err := d.GetCollection(ctx, name); err == nil {
		return existing, nil
	} else if !errors.Is(err, vector.ErrCollectionNotFound) {
		return nil, err
	}

	table := tableName(name)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(embedding float[%d] distance_metric=cosine)`,
		table, cfg.Dimensions,
	)
	if _, err := tx.ExecContext(ctx, createVec); err != nil {
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO vec_collections(name, table_name, provider, model, dimensions) VALUES (?, ?, ?, ?, ?)`,
		name, table, cfg.Provider, cfg.Model, cfg.Dimensions,
	); err != nil {
		return nil, fmt.Errorf("registering collection %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Info("created sqlite-vec collection",
		"collection", name,
		"table", table,
		"dimensions", cfg.Dimensions,
	)

	return &Collection{driver: d, name: name, table: table, config: cfg}, nil
}

// DeleteCollection drops the collection's vec0 table, documents and catalog row.
func (d *Driver) DeleteCollection(ctx context.Context, name string) error {
	coll, err := d.GetCollection(ctx, name)
	if err != nil {
		return err
	}
	c := coll.(*Collection)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, c.table)); err != nil {
		return fmt.Errorf("dropping vec0 table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vec_documents WHERE collection = ?`, name); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vec_collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("deleted sqlite-vec collection", "collection", name)
	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	return d.db.Close()
}

// Collection is a handle to one sqlite-vec collection.
type Collection struct {
	driver *Driver
	name   string
	table  string
	config vector.CollectionConfig
}

func (c *Collection) Name() string                    { return c.name }
func (c *Collection) Config() vector.CollectionConfig { return c.config }

// Upsert stores records. If a record with the same ID already exists, it is
// updated.
func (c *Collection) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.driver.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, r := range records {
		embBlob, err := sqlite_vec.SerializeFloat32(r.Embedding)
		if err != nil {
			return fmt.Errorf("serializing embedding for record %s: %w", r.ID, err)
		}

		meta, err := json.Marshal(vector.CopyMetadata(r.Metadata))
		if err != nil {
			return fmt.Errorf("encoding metadata for record %s: %w", r.ID, err)
		}

		var rowID int64
		err = tx.QueryRowContext(ctx,
			`SELECT rowid FROM vec_documents WHERE collection = ? AND doc_id = ?`, c.name, r.ID,
		).Scan(&rowID)

		switch {
		case err == nil:
			if _, err := tx.ExecContext(ctx,
				`UPDATE vec_documents SET document = ?, metadata = ? WHERE rowid = ?`,
				r.Document, string(meta), rowID,
			); err != nil {
				return fmt.Errorf("updating record %s: %w", r.ID, err)
			}

			// vec0 does not support UPDATE
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE rowid = ?`, c.table), rowID,
			); err != nil {
				return fmt.Errorf("deleting old embedding for record %s: %w", r.ID, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			result, err := tx.ExecContext(ctx,
				`INSERT INTO vec_documents(collection, doc_id, document, metadata) VALUES (?, ?, ?, ?)`,
				c.name, r.ID, r.Document, string(meta),
			)
			if err != nil {
				return fmt.Errorf("inserting record %s: %w", r.ID, err)
			}

			rowID, err = result.LastInsertId()
			if err != nil {
				return fmt.Errorf("getting rowid for record %s: %w", r.ID, err)
			}
		default:
			return fmt.Errorf("checking for existing record %s: %w", r.ID, err)
		}

		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s(rowid, embedding) VALUES (?, ?)`, c.table),
			rowID, embBlob,
		); err != nil {
			return fmt.Errorf("inserting embedding for record %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	c.driver.logger.Debug("upserted records to sqlite-vec",
		"collection", c.name,
		"count", len(records),
	)

	return nil
}

// GetAll returns every record in insertion order.
func (c *Collection) GetAll(ctx context.Context) ([]vector.Record, error) {
	rows, err := c.driver.db.QueryContext(ctx,
		`SELECT doc_id, document, metadata FROM vec_documents WHERE collection = ? ORDER BY rowid`, c.name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make([]vector.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

// Query finds the n nearest records by cosine distance.
func (c *Collection) Query(ctx context.Context, embedding []float32, n int) ([]vector.Hit, error) {
	hits := make([]vector.Hit, 0)
	if n <= 0 {
		return hits, nil
	}
	if n > maxK {
		n = maxK
	}

	queryBlob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, fmt.Errorf("serializing query embedding: %w", err)
	}

	// KNN query via vec0 MATCH, then JOIN back to get the document.
	rows, err := c.driver.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT
			d.doc_id,
			d.document,
			d.metadata,
			ve.distance
		FROM %s ve
		INNER JOIN vec_documents d ON d.rowid = ve.rowid
		WHERE ve.embedding MATCH ?
			AND ve.k = ?
		ORDER BY ve.distance
	`, c.table), queryBlob, n)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			hit      vector.Hit
			metadata string
		)
		if err := rows.Scan(&hit.ID, &hit.Document, &metadata, &hit.Distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}
		if err := decodeMetadata(metadata, &hit.Record); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	c.driver.logger.Debug("queried sqlite-vec",
		"collection", c.name,
		"results", len(hits),
	)

	return hits, nil
}

// Count returns the number of records in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.driver.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vec_documents WHERE collection = ?`, c.name,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

func scanRecord(rows *sql.Rows) (vector.Record, error) {
	var (
		r        vector.Record
		metadata string
	)
	if err := rows.Scan(&r.ID, &r.Document, &metadata); err != nil {
		return r, fmt.Errorf("scanning record: %w", err)
	}
	if err := decodeMetadata(metadata, &r); err != nil {
		return r, err
	}
	return r, nil
}

func decodeMetadata(raw string, r *vector.Record) error {
	r.Metadata = map[string]string{}
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &r.Metadata); err != nil {
		return fmt.Errorf("decoding metadata for record %s: %w", r.ID, err)
	}
	return nil
}
