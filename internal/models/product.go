package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ProductCategory enumerates the catalog categories. Values are stable and
// stored as integers; the JSON layer accepts either the name or the number.
type ProductCategory int

const (
	CategoryElectronics ProductCategory = iota
	CategoryClothing
	CategoryBooks
	CategoryHome
	CategorySports
	CategoryToys
)

var categoryNames = map[ProductCategory]string{
	CategoryElectronics: "Electronics",
	CategoryClothing:    "Clothing",
	CategoryBooks:       "Books",
	CategoryHome:        "Home",
	CategorySports:      "Sports",
	CategoryToys:        "Toys",
}

// String returns the category name, or a numeric placeholder for values
// outside the defined set.
func (c ProductCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// IsValid reports whether c is one of the defined category values.
func (c ProductCategory) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// ParseProductCategory resolves a category name to its value.
func ParseProductCategory(name string) (ProductCategory, bool) {
	for c, n := range categoryNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// MarshalJSON emits the category name.
func (c ProductCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either the enum name ("Electronics") or its integer
// value. Unknown integers are kept as-is so the validator can report them;
// unknown names are a parse error.
func (c *ProductCategory) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, ok := ParseProductCategory(name)
		if !ok {
			return fmt.Errorf("unknown product category %q", name)
		}
		*c = parsed
		return nil
	}

	value, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("product category must be a name or integer, got %s", string(data))
	}
	*c = ProductCategory(value)
	return nil
}

// CreateProductRequest is the inbound payload for product creation. It is
// ephemeral, one per call; the full rule set runs in the validation service,
// the tags here document the structural shape.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Brand         string          `json:"brand" validate:"required,min=2,max=100"`
	SKU           string          `json:"sku" validate:"required,min=5,max=20"`
	Category      ProductCategory `json:"category"`
	Price         float64         `json:"price" validate:"required,gt=0"`
	ReleaseDate   time.Time       `json:"releaseDate" validate:"required"`
	ImageURL      *string         `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
}

// Product is the persisted catalog entity. It is created once per accepted
// request and never mutated by the creation flow.
type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string          `json:"name" gorm:"size:255;not null;uniqueIndex:idx_products_name_brand"`
	Brand         string          `json:"brand" gorm:"size:255;not null;uniqueIndex:idx_products_name_brand"`
	SKU           string          `json:"sku" gorm:"column:sku;size:50;not null;uniqueIndex:idx_products_sku"`
	Category      ProductCategory `json:"category" gorm:"not null"`
	Price         float64         `json:"price" gorm:"type:numeric(18,2);not null"`
	ReleaseDate   time.Time       `json:"releaseDate" gorm:"not null"`
	ImageURL      *string         `json:"imageUrl" gorm:"size:2048"`
	IsAvailable   bool            `json:"isAvailable"`
	StockQuantity int             `json:"stockQuantity"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt"`
}

// ProductProfile is the response view: the stored fields plus the derived
// presentation fields. It is recomputed on every read and never persisted.
// Price and ImageURL hold the category-conditional values, not necessarily
// the stored ones.
type ProductProfile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	SKU           string    `json:"sku"`
	Price         float64   `json:"price"`
	ReleaseDate   time.Time `json:"releaseDate"`
	CreatedAt     time.Time `json:"createdAt"`
	ImageURL      *string   `json:"imageUrl"`
	IsAvailable   bool      `json:"isAvailable"`
	StockQuantity int       `json:"stockQuantity"`

	CategoryDisplayName string `json:"categoryDisplayName"`
	FormattedPrice      string `json:"formattedPrice"`
	ProductAge          string `json:"productAge"`
	BrandInitials       string `json:"brandInitials"`
	AvailabilityStatus  string `json:"availabilityStatus"`
}

// ValidationFailure is one rule violation for one field.
type ValidationFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
