package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/souqhub/storefront/pkg/logger"
)

//go:embed seed.json
var seedData []byte

type seedFile struct {
	Categories []seedCategory `json:"categories"`
	Vendors    []seedVendor   `json:"vendors"`
	Products   []seedProduct  `json:"products"`
}

type seedCategory struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Image       string `json:"image"`
	Featured    bool   `json:"featured"`
}

type seedVendor struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Logo        string  `json:"logo"`
	CoverImage  string  `json:"cover_image"`
	Location    string  `json:"location"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Verified    bool    `json:"verified"`
	Featured    bool    `json:"featured"`
	JoinedAt    string  `json:"joined_at"`
}

type seedProduct struct {
	Slug           string              `json:"slug"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Category       string              `json:"category"`
	Vendor         string              `json:"vendor"`
	PriceCents     int64               `json:"price_cents"`
	SalePriceCents *int64              `json:"sale_price_cents"`
	Images         []string            `json:"images"`
	VariantOptions map[string][]string `json:"variant_options"`
	Stock          int                 `json:"stock"`
	Rating         float64             `json:"rating"`
	ReviewCount    int                 `json:"review_count"`
	Featured       bool                `json:"featured"`
}

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Category{}, &Vendor{}, &Product{})
}

// Seed populates an empty catalog from the embedded fixture. A catalog that
// already has products is left untouched.
func Seed(ctx context.Context, db *gorm.DB, logg *logger.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&Product{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		logg.Debug(ctx, "catalog already seeded, skipping")
		return nil
	}

	var fixture seedFile
	if err := json.Unmarshal(seedData, &fixture); err != nil {
		return fmt.Errorf("parsing seed fixture: %w", err)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := make(map[string]*Category, len(fixture.Categories))
		for _, c := range fixture.Categories {
			category := &Category{
				Slug:        c.Slug,
				Name:        c.Name,
				Description: c.Description,
				Icon:        c.Icon,
				Image:       c.Image,
				Featured:    c.Featured,
			}
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("seeding category %q: %w", c.Slug, err)
			}
			categories[c.Slug] = category
		}

		vendors := make(map[string]*Vendor, len(fixture.Vendors))
		for _, v := range fixture.Vendors {
			joined, err := time.Parse("2006-01-02", v.JoinedAt)
			if err != nil {
				return fmt.Errorf("seeding vendor %q: bad joined_at: %w", v.Slug, err)
			}
			vendor := &Vendor{
				Slug:        v.Slug,
				Name:        v.Name,
				Description: v.Description,
				Logo:        v.Logo,
				CoverImage:  v.CoverImage,
				Location:    v.Location,
				Rating:      v.Rating,
				ReviewCount: v.ReviewCount,
				Verified:    v.Verified,
				Featured:    v.Featured,
				JoinedAt:    joined,
			}
			if err := tx.Create(vendor).Error; err != nil {
				return fmt.Errorf("seeding vendor %q: %w", v.Slug, err)
			}
			vendors[v.Slug] = vendor
		}

		for _, p := range fixture.Products {
			category, ok := categories[p.Category]
			if !ok {
				return fmt.Errorf("seeding product %q: unknown category %q", p.Slug, p.Category)
			}
			vendor, ok := vendors[p.Vendor]
			if !ok {
				return fmt.Errorf("seeding product %q: unknown vendor %q", p.Slug, p.Vendor)
			}
			product := &Product{
				Slug:           p.Slug,
				Title:          p.Title,
				Description:    p.Description,
				CategoryID:     category.ID,
				VendorID:       vendor.ID,
				PriceCents:     p.PriceCents,
				SalePriceCents: p.SalePriceCents,
				Images:         StringList(p.Images),
				VariantOptions: VariantOptions(p.VariantOptions),
				Stock:          p.Stock,
				Rating:         p.Rating,
				ReviewCount:    p.ReviewCount,
				Featured:       p.Featured,
				IsActive:       true,
			}
			if err := tx.Create(product).Error; err != nil {
				return fmt.Errorf("seeding product %q: %w", p.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"categories": len(fixture.Categories),
		"vendors":    len(fixture.Vendors),
		"products":   len(fixture.Products),
	}), "catalog seeded")
	return nil
}
