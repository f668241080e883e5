package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/go-playground/validator/v10"
)

var (
	brandNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 \-'.]+$`)
	skuPattern       = regexp.MustCompile(`^[a-zA-Z0-9-]{5,20}$`)
)

// checkFunc evaluates one rule. A false result is a validation failure; a
// non-nil error is an unexpected failure (e.g. the repository lookup broke)
// and aborts validation entirely instead of being reported as a failure.
type checkFunc func(ctx context.Context, req *models.CreateProductRequest) (bool, error)

// fieldRule pairs a check with an optional guard predicate. Guarded rules
// are skipped, not failed, for requests the guard rejects.
type fieldRule struct {
	guard   func(req *models.CreateProductRequest) bool
	check   checkFunc
	message func(req *models.CreateProductRequest) string
}

// ruleChain is the ordered rule list for one field. Within a chain the first
// failing rule stops the chain; separate chains always keep evaluating
// (cascade-on-property, continue-across-properties).
type ruleChain struct {
	field string
	rules []fieldRule
}

// ProductValidator evaluates the layered rule set for product creation:
// structural per-field rules, category-conditional rules, and repository-
// backed uniqueness and daily-limit checks.
type ProductValidator struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewProductValidator creates a ProductValidator backed by the given
// repository for uniqueness and count lookups.
func NewProductValidator(repo repositories.ProductRepository, logger *slog.Logger) *ProductValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductValidator{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source for the date-sensitive rules.
func (v *ProductValidator) SetClock(now func() time.Time) {
	v.now = now
}

// Validate evaluates every rule chain and returns the accumulated failures.
// An empty slice means the request is valid. A non-nil error means a lookup
// against the store failed and no validation verdict could be reached.
func (v *ProductValidator) Validate(ctx context.Context, req *models.CreateProductRequest) ([]models.ValidationFailure, error) {
	var failures []models.ValidationFailure

	for _, chain := range v.ruleChains() {
		for _, rule := range chain.rules {
			if rule.guard != nil && !rule.guard(req) {
				continue
			}
			ok, err := rule.check(ctx, req)
			if err != nil {
				return nil, fmt.Errorf("validation lookup failed for field %s: %w", chain.field, err)
			}
			if !ok {
				failures = append(failures, models.ValidationFailure{
					Field:   chain.field,
					Message: rule.message(req),
				})
				break
			}
		}
	}

	return failures, nil
}

func (v *ProductValidator) ruleChains() []ruleChain {
	return []ruleChain{
		{
			field: "name",
			rules: []fieldRule{
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return strings.TrimSpace(r.Name) != "" }),
					message: staticMessage("Product name is required"),
				},
				{
					check: v.local(func(r *models.CreateProductRequest) bool {
						return v.validate.Var(r.Name, fmt.Sprintf("min=%d,max=%d", NameMinLength, NameMaxLength)) == nil
					}),
					message: staticMessage(fmt.Sprintf("Product name must be between %d and %d characters", NameMinLength, NameMaxLength)),
				},
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return !containsAny(r.Name, inappropriateWords) }),
					message: staticMessage("Product name contains inappropriate content"),
				},
				{
					guard:   categoryIs(models.CategoryElectronics),
					check:   v.local(func(r *models.CreateProductRequest) bool { return containsAny(r.Name, technologyKeywords) }),
					message: staticMessage("Electronics product names must mention a technology keyword"),
				},
				{
					guard:   categoryIs(models.CategoryHome),
					check:   v.local(func(r *models.CreateProductRequest) bool { return !containsAny(r.Name, restrictedHomeWords) }),
					message: staticMessage("Home product names cannot contain restricted words"),
				},
			},
		},
		{
			field: "brand",
			rules: []fieldRule{
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return strings.TrimSpace(r.Brand) != "" }),
					message: staticMessage("Brand is required"),
				},
				{
					check: v.local(func(r *models.CreateProductRequest) bool {
						return v.validate.Var(r.Brand, fmt.Sprintf("min=%d,max=%d", BrandMinLength, BrandMaxLength)) == nil
					}),
					message: staticMessage(fmt.Sprintf("Brand name must be between %d and %d characters", BrandMinLength, BrandMaxLength)),
				},
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return brandNamePattern.MatchString(r.Brand) }),
					message: staticMessage("Brand name may only contain letters, digits, spaces, hyphens, apostrophes and dots"),
				},
				{
					guard:   categoryIs(models.CategoryClothing),
					check:   v.local(func(r *models.CreateProductRequest) bool { return len(r.Brand) >= BrandClothingMinLength }),
					message: staticMessage(fmt.Sprintf("Clothing brand names must be at least %d characters", BrandClothingMinLength)),
				},
			},
		},
		{
			field: "sku",
			rules: []fieldRule{
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return strings.TrimSpace(r.SKU) != "" }),
					message: staticMessage("SKU is required"),
				},
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return skuPattern.MatchString(r.SKU) }),
					message: staticMessage(fmt.Sprintf("SKU must be alphanumeric with hyphens, between %d and %d characters", SKUMinLength, SKUMaxLength)),
				},
				{
					check: v.uniqueSKU,
					message: func(r *models.CreateProductRequest) string {
						return (&DuplicateSKUError{SKU: r.SKU}).Error()
					},
				},
			},
		},
		{
			field: "category",
			rules: []fieldRule{
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return r.Category.IsValid() }),
					message: staticMessage("Category must be a valid product category"),
				},
			},
		},
		{
			field: "price",
			rules: []fieldRule{
				{
					check: v.local(func(r *models.CreateProductRequest) bool {
						return v.validate.Var(r.Price, "gt=0") == nil
					}),
					message: staticMessage("Price must be greater than zero"),
				},
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return r.Price < MaxPrice }),
					message: staticMessage(fmt.Sprintf("Price must be less than %s", FormatPrice(MaxPrice))),
				},
				{
					guard:   categoryIs(models.CategoryElectronics),
					check:   v.local(func(r *models.CreateProductRequest) bool { return r.Price >= ElectronicsMinPrice }),
					message: staticMessage(fmt.Sprintf("Electronics products must have a minimum price of %s", FormatPrice(ElectronicsMinPrice))),
				},
				{
					guard:   categoryIs(models.CategoryHome),
					check:   v.local(func(r *models.CreateProductRequest) bool { return r.Price <= HomeMaxPrice }),
					message: staticMessage(fmt.Sprintf("Home products cannot be priced above %s", FormatPrice(HomeMaxPrice))),
				},
			},
		},
		{
			field: "releaseDate",
			rules: []fieldRule{
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return !r.ReleaseDate.After(v.now()) }),
					message: staticMessage("Release date cannot be in the future"),
				},
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return r.ReleaseDate.Year() >= MinReleaseYear }),
					message: staticMessage(fmt.Sprintf("Release date cannot be before year %d", MinReleaseYear)),
				},
				{
					guard: categoryIs(models.CategoryElectronics),
					check: v.local(func(r *models.CreateProductRequest) bool {
						return !r.ReleaseDate.Before(v.now().AddDate(-ElectronicsMaxYearsOld, 0, 0))
					}),
					message: staticMessage(fmt.Sprintf("Electronics products must be released within the last %d years", ElectronicsMaxYearsOld)),
				},
			},
		},
		{
			field: "stockQuantity",
			rules: []fieldRule{
				{
					check: v.local(func(r *models.CreateProductRequest) bool {
						return v.validate.Var(r.StockQuantity, "gte=0") == nil
					}),
					message: staticMessage("Stock quantity cannot be negative"),
				},
				{
					check:   v.local(func(r *models.CreateProductRequest) bool { return r.StockQuantity <= MaxStockQuantity }),
					message: staticMessage(fmt.Sprintf("Stock quantity cannot exceed %d", MaxStockQuantity)),
				},
				{
					guard:   func(r *models.CreateProductRequest) bool { return r.Price > ExpensiveProductThreshold },
					check:   v.local(func(r *models.CreateProductRequest) bool { return r.StockQuantity <= ExpensiveProductMaxStock }),
					message: staticMessage(fmt.Sprintf("Expensive products (above %s) must have limited stock (at most %d units)", FormatPrice(ExpensiveProductThreshold), ExpensiveProductMaxStock)),
				},
			},
		},
		{
			field: "imageUrl",
			rules: []fieldRule{
				{
					guard:   hasImageURL,
					check:   v.local(func(r *models.CreateProductRequest) bool { return isValidImageURL(*r.ImageURL) }),
					message: staticMessage("Image URL must use http or https and end in .jpg, .jpeg, .png, .gif or .webp"),
				},
			},
		},
		{
			field: "name",
			rules: []fieldRule{
				{
					check: v.uniqueNameAndBrand,
					message: func(r *models.CreateProductRequest) string {
						return fmt.Sprintf("A product named '%s' already exists for brand '%s'", r.Name, r.Brand)
					},
				},
			},
		},
		// Cross-field business rules, each evaluated independently.
		{
			field: "request",
			rules: []fieldRule{
				{
					check:   v.underDailyLimit,
					message: staticMessage(fmt.Sprintf("Daily product creation limit of %d reached", MaxDailyProducts)),
				},
			},
		},
		{
			field: "request",
			rules: []fieldRule{
				{
					check: v.local(func(r *models.CreateProductRequest) bool {
						return r.Category != models.CategoryElectronics || r.Price >= ElectronicsMinPrice
					}),
					message: staticMessage(fmt.Sprintf("Electronics products must have a minimum price of %s", FormatPrice(ElectronicsMinPrice))),
				},
			},
		},
		{
			field: "request",
			rules: []fieldRule{
				{
					check: v.local(func(r *models.CreateProductRequest) bool {
						return r.Category != models.CategoryHome || !containsAny(r.Name, restrictedHomeWords)
					}),
					message: staticMessage("Home product names cannot contain restricted words"),
				},
			},
		},
		{
			field: "request",
			rules: []fieldRule{
				{
					check: v.local(func(r *models.CreateProductRequest) bool {
						return r.Price <= HighValueProductThreshold || r.StockQuantity <= HighValueProductMaxStock
					}),
					message: staticMessage(fmt.Sprintf("High-value products (above %s) must have limited stock (at most %d units)", FormatPrice(HighValueProductThreshold), HighValueProductMaxStock)),
				},
			},
		},
	}
}

// local adapts a pure predicate into a checkFunc.
func (v *ProductValidator) local(check func(r *models.CreateProductRequest) bool) checkFunc {
	return func(_ context.Context, r *models.CreateProductRequest) (bool, error) {
		return check(r), nil
	}
}

func (v *ProductValidator) uniqueSKU(ctx context.Context, r *models.CreateProductRequest) (bool, error) {
	if strings.TrimSpace(r.SKU) == "" {
		return true, nil
	}
	exists, err := v.repo.ExistsBySKU(ctx, r.SKU)
	if err != nil {
		return false, fmt.Errorf("checking SKU uniqueness for %q: %w", r.SKU, err)
	}
	if exists {
		v.logger.Warn("SKU already exists in the system", "sku", r.SKU)
	}
	return !exists, nil
}

func (v *ProductValidator) uniqueNameAndBrand(ctx context.Context, r *models.CreateProductRequest) (bool, error) {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Brand) == "" {
		return true, nil
	}
	exists, err := v.repo.ExistsByNameAndBrand(ctx, r.Name, r.Brand)
	if err != nil {
		return false, fmt.Errorf("checking name uniqueness for %q in brand %q: %w", r.Name, r.Brand, err)
	}
	if exists {
		v.logger.Warn("product with this name and brand already exists", "name", r.Name, "brand", r.Brand)
	}
	return !exists, nil
}

func (v *ProductValidator) underDailyLimit(ctx context.Context, _ *models.CreateProductRequest) (bool, error) {
	now := v.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	count, err := v.repo.CountCreatedSince(ctx, startOfDay)
	if err != nil {
		return false, fmt.Errorf("checking daily product limit: %w", err)
	}
	if count >= MaxDailyProducts {
		v.logger.Warn("daily product addition limit reached", "count", count)
		return false, nil
	}
	return true, nil
}

func categoryIs(category models.ProductCategory) func(r *models.CreateProductRequest) bool {
	return func(r *models.CreateProductRequest) bool {
		return r.Category == category
	}
}

func hasImageURL(r *models.CreateProductRequest) bool {
	return r.ImageURL != nil && strings.TrimSpace(*r.ImageURL) != ""
}

func staticMessage(message string) func(r *models.CreateProductRequest) string {
	return func(_ *models.CreateProductRequest) string {
		return message
	}
}

func containsAny(value string, words []string) bool {
	lower := strings.ToLower(value)
	for _, word := range words {
		if strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	return false
}

func isValidImageURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	lower := strings.ToLower(raw)
	for _, ext := range allowedImageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
