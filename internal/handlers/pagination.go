package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/RitochitGhosh/summarAIze/internal/config"
)

// PageParams holds the validated pagination inputs shared by list endpoints.
type PageParams struct {
	Page     int
	PageSize int
	// Search is the trimmed name filter, empty when no filter applies.
	Search string
}

// Offset returns the row offset for the requested page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePageParams validates page, page_size and search query parameters.
// Errors name the offending field so clients get field-level detail.
func ParsePageParams(query url.Values) (PageParams, error) {
	params := PageParams{
		Page:     config.DefaultPage,
		PageSize: config.DefaultPageSize,
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("page must be an integer")
		}
		if page < 1 {
			return params, fmt.Errorf("page must be at least 1")
		}
		params.Page = page
	}

	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("page_size must be an integer")
		}
		if size < config.MinPageSize || size > config.MaxPageSize {
			return params, fmt.Errorf("page_size must be between %d and %d", config.MinPageSize, config.MaxPageSize)
		}
		params.PageSize = size
	}

	params.Search = strings.TrimSpace(query.Get("search"))

	return params, nil
}

// TotalPages derives the page count from a filtered total. Zero totals yield
// zero pages; clients may still request any page and get empty items with
// accurate totals.
func TotalPages(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
