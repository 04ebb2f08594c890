package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/souqhub/storefront/pkg/pagination"
)

// Sort options accepted by product listings.
const (
	SortNewest    = "newest"
	SortPopular   = "popular"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// effectivePrice is the sale-price-first expression used for price sorting
// and range filtering.
const effectivePrice = "COALESCE(sale_price_cents, price_cents)"

// ListParams filters and orders a product listing.
type ListParams struct {
	CategorySlug  string
	VendorSlug    string
	Search        string
	MinPriceCents *int64
	MaxPriceCents *int64
	FeaturedOnly  bool
	Sort          string
	Page          pagination.Params
}

// Repository is the catalog read surface.
type Repository interface {
	ListProducts(ctx context.Context, params ListParams) ([]Product, int64, error)
	GetProductBySlug(ctx context.Context, slug string) (*Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListCategories(ctx context.Context, featuredOnly bool) ([]Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListVendors(ctx context.Context, featuredOnly bool) ([]Vendor, error)
	GetVendorBySlug(ctx context.Context, slug string) (*Vendor, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed catalog repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListProducts(ctx context.Context, params ListParams) ([]Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true)

	if slug := strings.TrimSpace(params.CategorySlug); slug != "" {
		sub := r.db.Model(&Category{}).Select("id").Where("slug = ?", slug)
		query = query.Where("category_id IN (?)", sub)
	}
	if slug := strings.TrimSpace(params.VendorSlug); slug != "" {
		sub := r.db.Model(&Vendor{}).Select("id").Where("slug = ?", slug)
		query = query.Where("vendor_id IN (?)", sub)
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if params.MinPriceCents != nil {
		query = query.Where(effectivePrice+" >= ?", *params.MinPriceCents)
	}
	if params.MaxPriceCents != nil {
		query = query.Where(effectivePrice+" <= ?", *params.MaxPriceCents)
	}
	if params.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(orderClause(params.Sort)).
		Limit(pagination.NormalizeLimit(params.Page.Limit)).
		Offset(params.Page.Offset()).
		Preload("Vendor").
		Preload("Category")

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func orderClause(sort string) string {
	switch sort {
	case SortPopular:
		return "review_count DESC"
	case SortPriceLow:
		return effectivePrice + " ASC"
	case SortPriceHigh:
		return effectivePrice + " DESC"
	case SortRating:
		return "rating DESC"
	case SortNewest:
		fallthrough
	default:
		return "created_at DESC"
	}
}

func (r *gormRepository) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Preload("Vendor").
		Preload("Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) ListCategories(ctx context.Context, featuredOnly bool) ([]Category, error) {
	query := r.db.WithContext(ctx).Model(&Category{}).Order("name ASC")
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}
	var categories []Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *gormRepository) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *gormRepository) ListVendors(ctx context.Context, featuredOnly bool) ([]Vendor, error) {
	query := r.db.WithContext(ctx).Model(&Vendor{}).Order("rating DESC")
	if featuredOnly {
		query = query.Where("featured = ?", true)
	}
	var vendors []Vendor
	if err := query.Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *gormRepository) GetVendorBySlug(ctx context.Context, slug string) (*Vendor, error) {
	var vendor Vendor
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}
