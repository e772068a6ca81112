package api

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/index"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StoreResponse is returned after an article is stored.
type StoreResponse struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
}

// ListResponse holds every record of a collection.
type ListResponse struct {
	Collection string           `json:"collection"`
	Records    []article.Record `json:"records"`
	Count      int              `json:"count"`
}

// SearchResponse holds ranked search results.
type SearchResponse struct {
	Query      string         `json:"query"`
	Collection string         `json:"collection"`
	Results    []index.Result `json:"results"`
	Count      int            `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStoreArticle handles POST /v1/articles.
// Query parameters:
//   - collection (optional): target collection
func (s *Server) handleStoreArticle(c *fiber.Ctx) error {
	var a article.Article
	if err := json.Unmarshal(c.Body(), &a); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid article body: " + err.Error()})
	}

	collection := s.collection(c.Query("collection"))
	rec, err := s.index.Store(c.Context(), a, collection)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(StoreResponse{ID: rec.ID, Collection: collection})
}

// handleListArticles handles GET /v1/collections/:name/articles.
func (s *Server) handleListArticles(c *fiber.Ctx) error {
	collection := c.Params("name")

	records, err := s.index.GetAll(c.Context(), collection)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(ListResponse{Collection: collection, Records: records, Count: len(records)})
}

// handleDeleteCollection handles DELETE /v1/collections/:name. Deleting a
// collection that does not exist succeeds.
func (s *Server) handleDeleteCollection(c *fiber.Ctx) error {
	if err := s.index.DeleteAll(c.Context(), c.Params("name")); err != nil {
		return s.errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// handleSearch handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - limit (optional): number of results to return
//   - collection (optional): collection to search
func (s *Server) handleSearch(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	limit := s.config.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	collection := s.collection(c.Query("collection"))
	results, err := s.index.Search(c.Context(), query, collection, limit)
	if err != nil {
		return s.errorResponse(c, err)
	}

	return c.JSON(SearchResponse{
		Query:      query,
		Collection: collection,
		Results:    results,
		Count:      len(results),
	})
}

// errorResponse maps index errors onto HTTP statuses.
func (s *Server) errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, index.ErrMissingURL):
		status = fiber.StatusBadRequest
	case errors.Is(err, index.ErrUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	s.logger.Error("request failed",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"error", err,
	)

	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}
