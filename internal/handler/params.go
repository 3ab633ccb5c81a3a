package handler

import (
	"net/http"
	"strconv"

	"plan-marketplace/internal/repository"

	"github.com/labstack/echo/v4"
)

func pagination(c echo.Context) (repository.Pagination, error) {
	page, err := intParam(c, "page")
	if err != nil {
		return repository.Pagination{}, err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return repository.Pagination{}, err
	}
	return repository.Pagination{Page: page, Limit: limit}, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return n, nil
}

func floatParam(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &f, nil
}

// productQuery reads the storefront listing parameters. "keyword" is
// accepted as an alias of "search".
func productQuery(c echo.Context) (repository.ProductQuery, error) {
	page, err := pagination(c)
	if err != nil {
		return repository.ProductQuery{}, err
	}

	q := repository.ProductQuery{
		Search:       c.QueryParam("search"),
		Category:     c.QueryParam("category"),
		Country:      c.QueryParam("country"),
		Direction:    c.QueryParam("direction"),
		PropertyType: c.QueryParam("propertyType"),
		Sort:         c.QueryParam("sort"),
		Pagination:   page,
	}
	if q.Search == "" {
		q.Search = c.QueryParam("keyword")
	}

	ranges := []struct {
		name string
		dst  **float64
	}{
		{"minBudget", &q.MinBudget},
		{"maxBudget", &q.MaxBudget},
		{"minArea", &q.MinArea},
		{"maxArea", &q.MaxArea},
	}
	for _, r := range ranges {
		v, err := floatParam(c, r.name)
		if err != nil {
			return repository.ProductQuery{}, err
		}
		*r.dst = v
	}
	return q, nil
}
