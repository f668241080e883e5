package services

// Rule constants for the product validation pipeline. Centralized here so
// every threshold and word list has a single definition.

const (
	NameMinLength = 1
	NameMaxLength = 200

	BrandMinLength         = 2
	BrandMaxLength         = 100
	BrandClothingMinLength = 3

	SKUMinLength = 5
	SKUMaxLength = 20

	MaxPrice            = 100000.0
	ElectronicsMinPrice = 10.0
	HomeMaxPrice        = 5000.0

	MinReleaseYear         = 1900
	ElectronicsMaxYearsOld = 5

	MaxStockQuantity = 10000

	// Products above ExpensiveProductThreshold may carry at most
	// ExpensiveProductMaxStock units; the high-value pair is the stricter
	// business-rule variant re-checked across fields.
	ExpensiveProductThreshold = 1000.0
	ExpensiveProductMaxStock  = 50
	HighValueProductThreshold = 5000.0
	HighValueProductMaxStock  = 10

	MaxDailyProducts = 100
)

// Substrings that disqualify a product name outright (matched
// case-insensitively).
var inappropriateWords = []string{
	"fake",
	"counterfeit",
	"replica",
	"stolen",
	"scam",
}

// At least one of these must appear in an Electronics product name.
var technologyKeywords = []string{
	"smart",
	"tech",
	"digital",
	"wireless",
	"electronic",
	"device",
	"gadget",
	"pro",
}

// Words not allowed in Home-category product names.
var restrictedHomeWords = []string{
	"weapon",
	"knife",
	"flammable",
	"hazardous",
	"toxic",
}

// Accepted image URL extensions.
var allowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
