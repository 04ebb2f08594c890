package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a top-level browse bucket.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Icon        string    `gorm:"column:icon"`
	Image       string    `gorm:"column:image"`
	Featured    bool      `gorm:"column:featured;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Vendor is a marketplace seller.
type Vendor struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Slug        string    `gorm:"column:slug;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Logo        string    `gorm:"column:logo"`
	CoverImage  string    `gorm:"column:cover_image"`
	Location    string    `gorm:"column:location"`
	Rating      float64   `gorm:"column:rating;not null;default:0"`
	ReviewCount int       `gorm:"column:review_count;not null;default:0"`
	Verified    bool      `gorm:"column:verified;not null;default:false"`
	Featured    bool      `gorm:"column:featured;not null;default:false"`
	JoinedAt    time.Time `gorm:"column:joined_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Product is a vendor listing. Prices are integer cents; a set sale price is
// authoritative for totals and sorting.
type Product struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Slug           string         `gorm:"column:slug;uniqueIndex;not null"`
	Title          string         `gorm:"column:title;not null"`
	Description    string         `gorm:"column:description"`
	CategoryID     uuid.UUID      `gorm:"column:category_id;type:uuid;not null;index"`
	Category       *Category      `gorm:"foreignKey:CategoryID"`
	VendorID       uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null;index"`
	Vendor         *Vendor        `gorm:"foreignKey:VendorID"`
	PriceCents     int64          `gorm:"column:price_cents;not null"`
	SalePriceCents *int64         `gorm:"column:sale_price_cents"`
	Images         StringList     `gorm:"column:images;type:text"`
	VariantOptions VariantOptions `gorm:"column:variant_options;type:text"`
	Stock          int            `gorm:"column:stock;not null;default:0"`
	Rating         float64        `gorm:"column:rating;not null;default:0"`
	ReviewCount    int            `gorm:"column:review_count;not null;default:0"`
	Featured       bool           `gorm:"column:featured;not null;default:false"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns ids client-side so the schema stays portable between
// SQLite and Postgres.
func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (v *Vendor) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FirstImage returns the primary product image, if any.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
