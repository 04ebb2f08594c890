package catalog

import "time"

// VendorRef is the vendor slice embedded on product DTOs.
type VendorRef struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ProductSummary is the card-sized product projection used by listings.
type ProductSummary struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	PriceCents      int64     `json:"price_cents"`
	Price           string    `json:"price"`
	SalePriceCents  *int64    `json:"sale_price_cents,omitempty"`
	SalePrice       *string   `json:"sale_price,omitempty"`
	DiscountPercent int       `json:"discount_percent,omitempty"`
	Image           string    `json:"image,omitempty"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	Featured        bool      `json:"featured"`
	InStock         bool      `json:"in_stock"`
	CategorySlug    string    `json:"category_slug,omitempty"`
	Vendor          VendorRef `json:"vendor"`
}

// ProductDetail extends the summary with everything the detail page needs.
type ProductDetail struct {
	ProductSummary
	Description    string         `json:"description,omitempty"`
	Images         []string       `json:"images,omitempty"`
	VariantOptions VariantOptions `json:"variant_options,omitempty"`
	Stock          int            `json:"stock"`
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items      []ProductSummary `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// CategoryDTO mirrors the category browse cards.
type CategoryDTO struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Image       string `json:"image,omitempty"`
	Featured    bool   `json:"featured"`
}

// VendorDTO mirrors the vendor storefront cards.
type VendorDTO struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Logo        string    `json:"logo,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Location    string    `json:"location,omitempty"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Verified    bool      `json:"verified"`
	Featured    bool      `json:"featured"`
	JoinedAt    time.Time `json:"joined_at"`
}
