package products

import (
	"github.com/dalemusser/careerhub/internal/domain/models"
)

type imageDTO struct {
	URL     string `json:"url" validate:"required,httpurl"`
	Alt     string `json:"alt" validate:"max=200"`
	Primary bool   `json:"primary"`
}

func images(in []imageDTO) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(in))
	for _, i := range in {
		out = append(out, models.ProductImage(i))
	}
	return out
}

type inventoryDTO struct {
	Quantity          int    `json:"quantity" validate:"gte=0"`
	SKU               string `json:"sku" validate:"max=64"`
	TrackInventory    bool   `json:"trackInventory"`
	LowStockThreshold int    `json:"lowStockThreshold" validate:"gte=0"`
}

type createRequest struct {
	Name          string       `json:"name" validate:"required,min=2,max=200"`
	Description   string       `json:"description" validate:"required"`
	Category      string       `json:"category" validate:"required,product_category"`
	Price         float64      `json:"price" validate:"gte=0"`
	OriginalPrice float64      `json:"originalPrice" validate:"gte=0"`
	Discount      float64      `json:"discount" validate:"gte=0,lte=100"`
	Images        []imageDTO   `json:"images" validate:"dive"`
	Inventory     inventoryDTO `json:"inventory"`
	Status        string       `json:"status" validate:"omitempty,product_status"`
	Tags          []string     `json:"tags"`
	Featured      bool         `json:"featured"`
}

func (d createRequest) product() models.Product {
	return models.Product{
		Name:          d.Name,
		Description:   d.Description,
		Category:      d.Category,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Discount:      d.Discount,
		Images:        images(d.Images),
		Inventory:     models.Inventory(d.Inventory),
		Status:        d.Status,
		Tags:          d.Tags,
		Featured:      d.Featured,
	}
}

type updateRequest struct {
	Name          *string       `json:"name" validate:"omitempty,min=2,max=200"`
	Description   *string       `json:"description"`
	Category      *string       `json:"category" validate:"omitempty,product_category"`
	Price         *float64      `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice *float64      `json:"originalPrice" validate:"omitempty,gte=0"`
	Discount      *float64      `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Images        []imageDTO    `json:"images" validate:"omitempty,dive"`
	Inventory     *inventoryDTO `json:"inventory"`
	Status        *string       `json:"status" validate:"omitempty,product_status"`
	Tags          []string      `json:"tags"`
	Featured      *bool         `json:"featured"`
}

func (d updateRequest) apply(p *models.Product) {
	if d.Name != nil {
		p.Name = *d.Name
	}
	if d.Description != nil {
		p.Description = *d.Description
	}
	if d.Category != nil {
		p.Category = *d.Category
	}
	if d.Price != nil {
		p.Price = *d.Price
	}
	if d.OriginalPrice != nil {
		p.OriginalPrice = *d.OriginalPrice
	}
	if d.Discount != nil {
		p.Discount = *d.Discount
	}
	if d.Images != nil {
		p.Images = images(d.Images)
	}
	if d.Inventory != nil {
		p.Inventory = models.Inventory(*d.Inventory)
	}
	if d.Status != nil {
		p.Status = *d.Status
	}
	if d.Tags != nil {
		p.Tags = d.Tags
	}
	if d.Featured != nil {
		p.Featured = *d.Featured
	}
}

// productView adds the derived pricing and stock fields.
type productView struct {
	*models.Product
	FinalPrice float64 `json:"finalPrice"`
	InStock    bool    `json:"inStock"`
	LowStock   bool    `json:"lowStock"`
}

func view(p *models.Product) productView {
	return productView{Product: p, FinalPrice: p.FinalPrice(), InStock: p.InStock(), LowStock: p.LowStock()}
}

func views(items []models.Product) []productView {
	out := make([]productView, 0, len(items))
	for i := range items {
		out = append(out, view(&items[i]))
	}
	return out
}
