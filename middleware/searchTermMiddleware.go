package middleware

import (
	"net/http"
	"strings"

	"github.com/SparkyDaBear/AtlasBioTech/contexts"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure a mandatory `term` HTTP query parameter is present
*/
func MandateSearchTermAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ac := c.(*contexts.AtlasContext)

		// check for a search term query parameter
		term := strings.TrimSpace(c.QueryParam("term"))
		if len(term) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing search term query parameter!")
		}

		ac.SearchTerm = term
		return next(ac)
	}
}
