package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/souqhub/storefront/internal/cart"
	pkgerrors "github.com/souqhub/storefront/pkg/errors"
	"github.com/souqhub/storefront/pkg/money"
	"github.com/souqhub/storefront/pkg/pagination"
)

// Service exposes the catalog to controllers and to the cart, which needs a
// trusted product reference before accepting an add.
type Service interface {
	ListProducts(ctx context.Context, params ListParams) (*ProductPage, error)
	GetProduct(ctx context.Context, slug string) (*ProductDetail, error)
	CartRef(ctx context.Context, productID uuid.UUID, selectedVariants map[string]string) (cart.ProductRef, error)
	ListCategories(ctx context.Context, featuredOnly bool) ([]CategoryDTO, error)
	GetCategory(ctx context.Context, slug string) (*CategoryDTO, error)
	ListVendors(ctx context.Context, featuredOnly bool) ([]VendorDTO, error)
	GetVendor(ctx context.Context, slug string) (*VendorDTO, error)
}

type service struct {
	repo     Repository
	currency string
}

// NewService wires the catalog service.
func NewService(repo Repository, currency string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if currency == "" {
		currency = "AED"
	}
	return &service{repo: repo, currency: currency}, nil
}

func (s *service) ListProducts(ctx context.Context, params ListParams) (*ProductPage, error) {
	products, total, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		items = append(items, s.summary(product))
	}
	limit := pagination.NormalizeLimit(params.Page.Limit)
	return &ProductPage{
		Items:      items,
		Total:      total,
		Page:       pagination.NormalizePage(params.Page.Page),
		Limit:      limit,
		TotalPages: pagination.TotalPages(total, limit),
	}, nil
}

func (s *service) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	detail := &ProductDetail{
		ProductSummary: s.summary(*product),
		Description:    product.Description,
		Images:         product.Images,
		VariantOptions: product.VariantOptions,
		Stock:          product.Stock,
	}
	return detail, nil
}

// CartRef resolves a product into the shape the cart accepts, validating the
// variant selection against the product's selectable options.
func (s *service) CartRef(ctx context.Context, productID uuid.UUID, selectedVariants map[string]string) (cart.ProductRef, error) {
	if productID == uuid.Nil {
		return cart.ProductRef{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.ProductRef{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return cart.ProductRef{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Stock < 1 {
		return cart.ProductRef{}, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
	}

	if err := validateSelection(product.VariantOptions, selectedVariants); err != nil {
		return cart.ProductRef{}, err
	}

	ref := cart.ProductRef{
		ID:             product.ID.String(),
		Name:           product.Title,
		Slug:           product.Slug,
		PriceCents:     product.PriceCents,
		SalePriceCents: product.SalePriceCents,
		Image:          product.FirstImage(),
		MaxQty:         product.Stock,
	}
	if product.Vendor != nil {
		ref.Vendor = cart.VendorSummary{
			ID:   product.Vendor.ID.String(),
			Name: product.Vendor.Name,
			Slug: product.Vendor.Slug,
		}
	}
	return ref, nil
}

func validateSelection(options VariantOptions, selected map[string]string) error {
	if len(selected) == 0 {
		return nil
	}

	names := make([]string, 0, len(selected))
	for name := range selected {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !options.Allows(name, selected[name]) {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid variant selection").
				WithDetails(map[string]string{name: "is not a selectable option"})
		}
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context, featuredOnly bool) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx, featuredOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, categoryDTO(category))
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, slug string) (*CategoryDTO, error) {
	category, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	dto := categoryDTO(*category)
	return &dto, nil
}

func (s *service) ListVendors(ctx context.Context, featuredOnly bool) ([]VendorDTO, error) {
	vendors, err := s.repo.ListVendors(ctx, featuredOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	out := make([]VendorDTO, 0, len(vendors))
	for _, vendor := range vendors {
		out = append(out, vendorDTO(vendor))
	}
	return out, nil
}

func (s *service) GetVendor(ctx context.Context, slug string) (*VendorDTO, error) {
	vendor, err := s.repo.GetVendorBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	dto := vendorDTO(*vendor)
	return &dto, nil
}

func (s *service) summary(product Product) ProductSummary {
	summary := ProductSummary{
		ID:          product.ID.String(),
		Slug:        product.Slug,
		Title:       product.Title,
		PriceCents:  product.PriceCents,
		Price:       money.FormatPrice(product.PriceCents, s.currency),
		Image:       product.FirstImage(),
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
		Featured:    product.Featured,
		InStock:     product.Stock > 0,
	}
	if product.SalePriceCents != nil {
		sale := *product.SalePriceCents
		formatted := money.FormatPrice(sale, s.currency)
		summary.SalePriceCents = &sale
		summary.SalePrice = &formatted
		summary.DiscountPercent = money.DiscountPercent(product.PriceCents, sale)
	}
	if product.Category != nil {
		summary.CategorySlug = product.Category.Slug
	}
	if product.Vendor != nil {
		summary.Vendor = VendorRef{
			ID:   product.Vendor.ID.String(),
			Slug: product.Vendor.Slug,
			Name: product.Vendor.Name,
		}
	}
	return summary
}

func categoryDTO(category Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID.String(),
		Slug:        category.Slug,
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		Image:       category.Image,
		Featured:    category.Featured,
	}
}

func vendorDTO(vendor Vendor) VendorDTO {
	return VendorDTO{
		ID:          vendor.ID.String(),
		Slug:        vendor.Slug,
		Name:        vendor.Name,
		Description: vendor.Description,
		Logo:        vendor.Logo,
		CoverImage:  vendor.CoverImage,
		Location:    vendor.Location,
		Rating:      vendor.Rating,
		ReviewCount: vendor.ReviewCount,
		Verified:    vendor.Verified,
		Featured:    vendor.Featured,
		JoinedAt:    vendor.JoinedAt,
	}
}
