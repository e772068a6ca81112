package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionNotFound is returned when a named collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrConnection is returned when the vector store cannot be reached.
	ErrConnection = errors.New("vector store connection failed")

	// ErrDimensionMismatch is returned when two vectors differ in length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

func dimensionMismatch(want, got int) error {
	return fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, want, got)
}

// CheckDimensions fails when want is set and embedding is not that long.
func CheckDimensions(embedding []float32, want uint) error {
	if want > 0 && uint(len(embedding)) != want {
		return dimensionMismatch(int(want), len(embedding))
	}
	return nil
}
