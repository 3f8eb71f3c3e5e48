package handler

import (
	"strconv"

	"github.com/dsdaea/aerovault-backend/internal/response"
	"github.com/gin-gonic/gin"
)

func parseID(raw string) (int, error) {
	return strconv.Atoi(raw)
}

// parsePagination reads page/per_page query params with sane bounds.
func parsePagination(c *gin.Context) (page, perPage, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return page, perPage, perPage, (page - 1) * perPage
}

func buildPagination(page, perPage, total int) *response.Pagination {
	totalPages := total / perPage
	if total%perPage != 0 {
		totalPages++
	}
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// eventIDFilter reads an optional ?event_id= query filter.
func eventIDFilter(c *gin.Context) (*int, bool) {
	raw := c.Query("event_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}
