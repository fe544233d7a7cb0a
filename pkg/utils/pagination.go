package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageParams holds the page window for browse-style queries.
type PageParams struct {
	Page     int
	PageSize int
}

// GetPageParams reads "page" and "limit" from the query string. Missing or
// malformed values fall back to the first page of defaultPageSize items;
// a limit above maxPageSize is clamped so a client cannot request the whole
// catalog in one response.
func GetPageParams(c echo.Context) PageParams {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return PageParams{Page: page, PageSize: size}
}
