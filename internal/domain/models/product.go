// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCategories is the closed set of product categories.
var ProductCategories = []string{
	"course-material", "software", "hardware", "book", "merchandise", "subscription", "other",
}

// Product statuses.
const (
	ProductDraft        = "draft"
	ProductActive       = "active"
	ProductInactive     = "inactive"
	ProductDiscontinued = "discontinued"
)

// ProductStatuses lists every product status.
var ProductStatuses = []string{ProductDraft, ProductActive, ProductInactive, ProductDiscontinued}

// ProductImage is one image of a product. At most one image is primary.
type ProductImage struct {
	URL     string `bson:"url" json:"url"`
	Alt     string `bson:"alt,omitempty" json:"alt,omitempty"`
	Primary bool   `bson:"primary" json:"primary"`
}

// Inventory is the stock state of a product.
type Inventory struct {
	Quantity          int    `bson:"quantity" json:"quantity"`
	SKU               string `bson:"sku,omitempty" json:"sku,omitempty"`
	TrackInventory    bool   `bson:"track_inventory" json:"trackInventory"`
	LowStockThreshold int    `bson:"low_stock_threshold" json:"lowStockThreshold"`
}

// Product is an item sold by the company.
type Product struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name"`
	NameCI        string              `bson:"name_ci" json:"-"`
	Description   string              `bson:"description" json:"description"`
	Category      string              `bson:"category" json:"category"`
	Price         float64             `bson:"price" json:"price"`
	OriginalPrice float64             `bson:"original_price,omitempty" json:"originalPrice,omitempty"`
	Discount      float64             `bson:"discount" json:"discount"`
	Images        []ProductImage      `bson:"images" json:"images"`
	Inventory     Inventory           `bson:"inventory" json:"inventory"`
	Status        string              `bson:"status" json:"status"`
	SalesCount    int                 `bson:"sales_count" json:"salesCount"`
	ViewCount     int                 `bson:"view_count" json:"viewCount"`
	ReviewCount   int                 `bson:"review_count" json:"reviewCount"`
	Tags          []string            `bson:"tags,omitempty" json:"tags,omitempty"`
	Featured      bool                `bson:"featured" json:"featured"`
	CreatedBy     *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// FinalPrice is the price after the percentage discount.
func (p *Product) FinalPrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.Discount/100)
}

// InStock reports whether the product can be sold. Untracked inventory is
// always in stock.
func (p *Product) InStock() bool {
	if !p.Inventory.TrackInventory {
		return true
	}
	return p.Inventory.Quantity > 0
}

// LowStock reports whether tracked inventory is at or below its threshold.
func (p *Product) LowStock() bool {
	return p.Inventory.TrackInventory && p.Inventory.Quantity <= p.Inventory.LowStockThreshold
}

// NormalizeImages keeps only the first image marked primary; when none is
// marked, the first image becomes primary.
func NormalizeImages(images []ProductImage) []ProductImage {
	if len(images) == 0 {
		return images
	}
	out := make([]ProductImage, len(images))
	copy(out, images)
	found := false
	for i := range out {
		if out[i].Primary {
			if found {
				out[i].Primary = false
			}
			found = true
		}
	}
	if !found {
		out[0].Primary = true
	}
	return out
}
