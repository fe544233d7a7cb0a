package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func pageParamsFor(t *testing.T, query string) PageParams {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/listings?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return GetPageParams(c)
}

func TestGetPageParams(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected PageParams
	}{
		{"defaults", "", PageParams{Page: 1, PageSize: 20}},
		{"explicit window", "page=3&limit=10", PageParams{Page: 3, PageSize: 10}},
		{"malformed values", "page=abc&limit=xyz", PageParams{Page: 1, PageSize: 20}},
		{"negative values", "page=-1&limit=-5", PageParams{Page: 1, PageSize: 20}},
		{"oversized limit clamps", "limit=5000", PageParams{Page: 1, PageSize: 100}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, pageParamsFor(t, tc.query))
		})
	}
}
