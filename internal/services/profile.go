package services

import (
	"fmt"
	"strings"
	"time"

	"catalog/internal/models"
)

// Derivation thresholds and labels for the presentation fields.
const (
	newReleaseThresholdDays = 30
	monthsOldThresholdDays  = 365
	yearsOldThresholdDays   = 1825 // 5 years

	averageDaysPerMonth = 30.44
	averageDaysPerYear  = 365.25

	lastItemStock         = 1
	limitedStockThreshold = 5

	homeDiscountMultiplier = 0.9

	brandInitialsPlaceholder = "?"
)

const (
	categoryDisplayElectronics = "Electronics & Technology"
	categoryDisplayClothing    = "Clothing & Fashion"
	categoryDisplayBooks       = "Books & Media"
	categoryDisplayHome        = "Home & Garden"
	categoryDisplayDefault     = "Uncategorized"
)

const (
	availabilityOutOfStock   = "Out of Stock"
	availabilityUnavailable  = "Unavailable"
	availabilityLastItem     = "Last Item"
	availabilityLimitedStock = "Limited Stock"
	availabilityInStock      = "In Stock"
)

// CategoryDisplayName maps a category to its storefront display name.
func CategoryDisplayName(category models.ProductCategory) string {
	switch category {
	case models.CategoryElectronics:
		return categoryDisplayElectronics
	case models.CategoryClothing:
		return categoryDisplayClothing
	case models.CategoryBooks:
		return categoryDisplayBooks
	case models.CategoryHome:
		return categoryDisplayHome
	default:
		return categoryDisplayDefault
	}
}

// FormatPrice renders a price as a two-decimal currency string.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// ProductAge buckets the time since release into a human label. The month
// and year counts use average month/year lengths, matching the thresholds.
func ProductAge(releaseDate, now time.Time) string {
	days := now.Sub(releaseDate).Hours() / 24

	if days < newReleaseThresholdDays {
		return "New Release"
	}
	if days < monthsOldThresholdDays {
		months := int(days / averageDaysPerMonth)
		return fmt.Sprintf("%d month%s old", months, plural(months))
	}
	if days < yearsOldThresholdDays {
		years := int(days / averageDaysPerYear)
		return fmt.Sprintf("%d year%s old", years, plural(years))
	}
	return "Classic"
}

// BrandInitials extracts initials from the brand name: first letter for a
// single word, first letters of the first and last words otherwise, "?" for
// a blank brand.
func BrandInitials(brand string) string {
	if strings.TrimSpace(brand) == "" {
		return brandInitialsPlaceholder
	}

	words := strings.Fields(brand)
	if len(words) < 2 {
		return strings.ToUpper(words[0][:1])
	}
	return strings.ToUpper(words[0][:1] + words[len(words)-1][:1])
}

// AvailabilityStatus is a pure function of the availability flag and the
// stock quantity.
func AvailabilityStatus(isAvailable bool, stockQuantity int) string {
	if !isAvailable {
		return availabilityOutOfStock
	}

	switch {
	case stockQuantity == 0:
		return availabilityUnavailable
	case stockQuantity == lastItemStock:
		return availabilityLastItem
	case stockQuantity <= limitedStockThreshold:
		return availabilityLimitedStock
	default:
		return availabilityInStock
	}
}

// conditionalPrice applies the Home-category discount; other categories pass
// through unchanged. Home-only by business policy, not generalized.
func conditionalPrice(product *models.Product) float64 {
	if product.Category == models.CategoryHome {
		return product.Price * homeDiscountMultiplier
	}
	return product.Price
}

// conditionalImageURL suppresses the image for Home products (content
// filtering) and passes the stored value through otherwise.
func conditionalImageURL(product *models.Product) *string {
	if product.Category == models.CategoryHome {
		return nil
	}
	return product.ImageURL
}

// profileResolvers is the fixed table of derived presentation fields, keyed
// by response field name. Every resolver is pure over (product, now).
var profileResolvers = map[string]func(product *models.Product, now time.Time) string{
	"categoryDisplayName": func(p *models.Product, _ time.Time) string { return CategoryDisplayName(p.Category) },
	"formattedPrice":      func(p *models.Product, _ time.Time) string { return FormatPrice(p.Price) },
	"productAge":          func(p *models.Product, now time.Time) string { return ProductAge(p.ReleaseDate, now) },
	"brandInitials":       func(p *models.Product, _ time.Time) string { return BrandInitials(p.Brand) },
	"availabilityStatus":  func(p *models.Product, _ time.Time) string { return AvailabilityStatus(p.IsAvailable, p.StockQuantity) },
}

// BuildProductProfile derives the response view from a persisted product.
// Everything except the age label depends only on the stored state.
func BuildProductProfile(product *models.Product, now time.Time) *models.ProductProfile {
	return &models.ProductProfile{
		ID:            product.ID,
		Name:          product.Name,
		Brand:         product.Brand,
		SKU:           product.SKU,
		Price:         conditionalPrice(product),
		ReleaseDate:   product.ReleaseDate,
		CreatedAt:     product.CreatedAt,
		ImageURL:      conditionalImageURL(product),
		IsAvailable:   product.IsAvailable,
		StockQuantity: product.StockQuantity,

		CategoryDisplayName: profileResolvers["categoryDisplayName"](product, now),
		FormattedPrice:      profileResolvers["formattedPrice"](product, now),
		ProductAge:          profileResolvers["productAge"](product, now),
		BrandInitials:       profileResolvers["brandInitials"](product, now),
		AvailabilityStatus:  profileResolvers["availabilityStatus"](product, now),
	}
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
