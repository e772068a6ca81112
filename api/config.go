// Package api provides an HTTP API server for storing, listing and searching
// news articles.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// DefaultCollection is used when a request names no collection.
	DefaultCollection string

	// DefaultLimit is the search limit when none is requested.
	DefaultLimit int
}
