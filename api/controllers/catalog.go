package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/souqhub/storefront/api/responses"
	"github.com/souqhub/storefront/api/validators"
	"github.com/souqhub/storefront/internal/catalog"
	pkgerrors "github.com/souqhub/storefront/pkg/errors"
	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/pagination"
)

// ListProducts serves the browse grid with filtering, search, sorting and
// pagination.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := listParamsFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func listParamsFromQuery(r *http.Request) (catalog.ListParams, error) {
	pageNum, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
	if err != nil {
		return catalog.ListParams{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return catalog.ListParams{}, err
	}
	minPrice, err := validators.ParseQueryCents(r, "min_price")
	if err != nil {
		return catalog.ListParams{}, err
	}
	maxPrice, err := validators.ParseQueryCents(r, "max_price")
	if err != nil {
		return catalog.ListParams{}, err
	}

	sort := strings.TrimSpace(r.URL.Query().Get("sort"))
	switch sort {
	case "", catalog.SortNewest, catalog.SortPopular, catalog.SortPriceLow, catalog.SortPriceHigh, catalog.SortRating:
	default:
		return catalog.ListParams{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort option").
			WithDetails(map[string]any{"field": "sort"})
	}

	return catalog.ListParams{
		CategorySlug:  r.URL.Query().Get("category"),
		VendorSlug:    r.URL.Query().Get("vendor"),
		Search:        r.URL.Query().Get("q"),
		MinPriceCents: minPrice,
		MaxPriceCents: maxPrice,
		FeaturedOnly:  validators.ParseQueryBool(r, "featured"),
		Sort:          sort,
		Page:          pagination.Params{Page: pageNum, Limit: limit},
	}, nil
}

// GetProduct serves the product detail page by slug.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		detail, err := svc.GetProduct(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context(), validators.ParseQueryBool(r, "featured"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

func GetCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		category, err := svc.GetCategory(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

func ListVendors(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendors, err := svc.ListVendors(r.Context(), validators.ParseQueryBool(r, "featured"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendors)
	}
}

func GetVendor(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		vendor, err := svc.GetVendor(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}
