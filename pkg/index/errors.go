package index

import "errors"

var (
	// ErrUnavailable is returned when the vector store or embedding provider
	// cannot serve a request. It distinguishes "unreachable" from "empty".
	ErrUnavailable = errors.New("index unavailable")

	// ErrMissingURL is returned when an article without a URL is stored.
	ErrMissingURL = errors.New("article url is required")
)
