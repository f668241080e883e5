package services_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) ExistsByNameAndBrand(ctx context.Context, name, brand string) (bool, error) {
	args := m.Called(ctx, name, brand)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

var validatorNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newValidator(repo *MockProductRepository) *services.ProductValidator {
	v := services.NewProductValidator(repo, testLogger())
	v.SetClock(func() time.Time { return validatorNow })
	return v
}

// expectCleanLookups wires the repository so every external check passes.
func expectCleanLookups(repo *MockProductRepository) {
	repo.On("ExistsBySKU", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("ExistsByNameAndBrand", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	repo.On("CountCreatedSince", mock.Anything, mock.Anything).Return(int64(0), nil)
}

func validElectronicsRequest() *models.CreateProductRequest {
	imageURL := "https://example.com/headphones.jpg"
	return &models.CreateProductRequest{
		Name:          "Wireless Headphones",
		Brand:         "Tech Innovations",
		SKU:           "ELEC-WH-001",
		Category:      models.CategoryElectronics,
		Price:         199.99,
		ReleaseDate:   validatorNow.AddDate(0, 0, -15),
		ImageURL:      &imageURL,
		StockQuantity: 50,
	}
}

func validBooksRequest() *models.CreateProductRequest {
	return &models.CreateProductRequest{
		Name:          "History of Rome",
		Brand:         "Acme Press",
		SKU:           "BOOK-ROME-01",
		Category:      models.CategoryBooks,
		Price:         35.50,
		ReleaseDate:   validatorNow.AddDate(-1, 0, 0),
		StockQuantity: 20,
	}
}

func TestValidate_ValidRequestHasNoFailures(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	failures, err := validator.Validate(context.Background(), validElectronicsRequest())

	assert.NoError(t, err)
	assert.Empty(t, failures)
}

func TestValidate_EmptyNameCascadesWithinChain(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := validElectronicsRequest()
	req.Name = ""

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	// The name chain stops at "required"; the later length, content, and
	// technology-keyword rules on the same field never report.
	assert.Len(t, failures, 1)
	assert.Equal(t, "name", failures[0].Field)
	assert.Equal(t, "Product name is required", failures[0].Message)
}

func TestValidate_FailuresAccumulateAcrossFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := validBooksRequest()
	req.Name = ""
	req.SKU = "ab" // too short for the pattern
	req.Price = 0

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, failures, 3)

	fields := make([]string, 0, len(failures))
	for _, f := range failures {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "sku", "price"}, fields)
}

func TestValidate_NameRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(req *models.CreateProductRequest)
		expected string
	}{
		{
			"banned substring",
			func(r *models.CreateProductRequest) { r.Name = "Fake Wireless Headphones" },
			"Product name contains inappropriate content",
		},
		{
			"electronics without technology keyword",
			func(r *models.CreateProductRequest) { r.Name = "Blender" },
			"Electronics product names must mention a technology keyword",
		},
		{
			"name too long",
			func(r *models.CreateProductRequest) {
				for len(r.Name) <= 200 {
					r.Name += " Wireless"
				}
			},
			fmt.Sprintf("Product name must be between %d and %d characters", 1, 200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			expectCleanLookups(mockRepo)
			validator := newValidator(mockRepo)

			req := validElectronicsRequest()
			tt.mutate(req)

			failures, err := validator.Validate(context.Background(), req)

			assert.NoError(t, err)
			assert.Len(t, failures, 1)
			assert.Equal(t, "name", failures[0].Field)
			assert.Equal(t, tt.expected, failures[0].Message)
		})
	}
}

func TestValidate_HomeRestrictedWordsFailNameAndBusinessRule(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := &models.CreateProductRequest{
		Name:          "Kitchen Knife Set",
		Brand:         "Garden Living",
		SKU:           "HOME-KNIFE-01",
		Category:      models.CategoryHome,
		Price:         49.99,
		ReleaseDate:   validatorNow.AddDate(0, -6, 0),
		StockQuantity: 30,
	}

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	// Both the guarded name rule and the independent business-rule re-check
	// report; they are different chains.
	assert.Len(t, failures, 2)
	assert.Equal(t, "name", failures[0].Field)
	assert.Equal(t, "request", failures[1].Field)
}

func TestValidate_BrandRules(t *testing.T) {
	tests := []struct {
		name     string
		category models.ProductCategory
		brand    string
		message  string
	}{
		{"invalid characters", models.CategoryBooks, "Acme@Press!", "Brand name may only contain letters, digits, spaces, hyphens, apostrophes and dots"},
		{"clothing brand too short", models.CategoryClothing, "Xi", "Clothing brand names must be at least 3 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			expectCleanLookups(mockRepo)
			validator := newValidator(mockRepo)

			req := validBooksRequest()
			req.Category = tt.category
			req.Brand = tt.brand

			failures, err := validator.Validate(context.Background(), req)

			assert.NoError(t, err)
			assert.Len(t, failures, 1)
			assert.Equal(t, "brand", failures[0].Field)
			assert.Equal(t, tt.message, failures[0].Message)
		})
	}
}

func TestValidate_ClothingBrandGuardSkippedForOtherCategories(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	// Two characters is fine everywhere except Clothing.
	req := validBooksRequest()
	req.Brand = "Xi"

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	assert.Empty(t, failures)
}

func TestValidate_DuplicateSKUReportsFixedMessage(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("ExistsBySKU", mock.Anything, "BOOK-ROME-01").Return(true, nil)
	mockRepo.On("ExistsByNameAndBrand", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	mockRepo.On("CountCreatedSince", mock.Anything, mock.Anything).Return(int64(0), nil)
	validator := newValidator(mockRepo)

	failures, err := validator.Validate(context.Background(), validBooksRequest())

	assert.NoError(t, err)
	assert.Len(t, failures, 1)
	assert.Equal(t, "sku", failures[0].Field)
	assert.Equal(t, "A product with SKU 'BOOK-ROME-01' already exists. SKU must be unique.", failures[0].Message)
}

func TestValidate_DuplicateNameAndBrandPair(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("ExistsBySKU", mock.Anything, mock.Anything).Return(false, nil)
	mockRepo.On("ExistsByNameAndBrand", mock.Anything, "History of Rome", "Acme Press").Return(true, nil)
	mockRepo.On("CountCreatedSince", mock.Anything, mock.Anything).Return(int64(0), nil)
	validator := newValidator(mockRepo)

	failures, err := validator.Validate(context.Background(), validBooksRequest())

	assert.NoError(t, err)
	assert.Len(t, failures, 1)
	assert.Equal(t, "name", failures[0].Field)
	assert.Contains(t, failures[0].Message, "already exists for brand")
}

func TestValidate_PriceRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *models.CreateProductRequest)
		field   string
		message string
	}{
		{
			"price above global ceiling",
			func(r *models.CreateProductRequest) { r.Price = 150000 },
			"price",
			"Price must be less than $100000.00",
		},
		{
			"home price above category ceiling",
			func(r *models.CreateProductRequest) {
				r.Category = models.CategoryHome
				r.Price = 6000
				r.StockQuantity = 5
			},
			"price",
			"Home products cannot be priced above $5000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			expectCleanLookups(mockRepo)
			validator := newValidator(mockRepo)

			req := validBooksRequest()
			tt.mutate(req)

			failures, err := validator.Validate(context.Background(), req)

			assert.NoError(t, err)
			assert.NotEmpty(t, failures)
			assert.Equal(t, tt.field, failures[0].Field)
			assert.Equal(t, tt.message, failures[0].Message)
		})
	}
}

func TestValidate_ElectronicsMinPriceFailsFieldAndBusinessRule(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := validElectronicsRequest()
	req.Price = 5

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, failures, 2)
	assert.Equal(t, "price", failures[0].Field)
	assert.Equal(t, "request", failures[1].Field)
	assert.Equal(t, "Electronics products must have a minimum price of $10.00", failures[0].Message)
}

func TestValidate_ReleaseDateRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *models.CreateProductRequest)
		message string
	}{
		{
			"future release date",
			func(r *models.CreateProductRequest) { r.ReleaseDate = validatorNow.AddDate(0, 0, 1) },
			"Release date cannot be in the future",
		},
		{
			"before 1900",
			func(r *models.CreateProductRequest) { r.ReleaseDate = time.Date(1899, 1, 1, 0, 0, 0, 0, time.UTC) },
			"Release date cannot be before year 1900",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			expectCleanLookups(mockRepo)
			validator := newValidator(mockRepo)

			req := validBooksRequest()
			tt.mutate(req)

			failures, err := validator.Validate(context.Background(), req)

			assert.NoError(t, err)
			assert.Len(t, failures, 1)
			assert.Equal(t, "releaseDate", failures[0].Field)
			assert.Equal(t, tt.message, failures[0].Message)
		})
	}
}

func TestValidate_ElectronicsMustBeRecent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := validElectronicsRequest()
	req.ReleaseDate = validatorNow.AddDate(-6, 0, 0)

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, failures, 1)
	assert.Equal(t, "releaseDate", failures[0].Field)
	assert.Equal(t, "Electronics products must be released within the last 5 years", failures[0].Message)
}

func TestValidate_StockRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *models.CreateProductRequest)
		count   int
		message string
	}{
		{
			"negative stock",
			func(r *models.CreateProductRequest) { r.StockQuantity = -1 },
			1,
			"Stock quantity cannot be negative",
		},
		{
			"stock above global ceiling",
			func(r *models.CreateProductRequest) { r.StockQuantity = 10001 },
			1,
			"Stock quantity cannot exceed 10000",
		},
		{
			"expensive product with too much stock",
			func(r *models.CreateProductRequest) {
				r.Price = 1500
				r.StockQuantity = 60
			},
			1,
			"Expensive products (above $1000.00) must have limited stock (at most 50 units)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			expectCleanLookups(mockRepo)
			validator := newValidator(mockRepo)

			req := validBooksRequest()
			tt.mutate(req)

			failures, err := validator.Validate(context.Background(), req)

			assert.NoError(t, err)
			assert.Len(t, failures, tt.count)
			assert.Equal(t, "stockQuantity", failures[0].Field)
			assert.Equal(t, tt.message, failures[0].Message)
		})
	}
}

func TestValidate_ExpensiveStockGuardSkippedForCheapProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := validBooksRequest()
	req.Price = 999
	req.StockQuantity = 60

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	assert.Empty(t, failures)
}

func TestValidate_HighValueStockBusinessRule(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := validBooksRequest()
	req.Price = 6000
	req.StockQuantity = 20

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, failures, 1)
	assert.Equal(t, "request", failures[0].Field)
	assert.Equal(t, "High-value products (above $5000.00) must have limited stock (at most 10 units)", failures[0].Message)
}

func TestValidate_CategoryMustBeDefined(t *testing.T) {
	mockRepo := new(MockProductRepository)
	expectCleanLookups(mockRepo)
	validator := newValidator(mockRepo)

	req := validBooksRequest()
	req.Category = models.ProductCategory(42)

	failures, err := validator.Validate(context.Background(), req)

	assert.NoError(t, err)
	assert.Len(t, failures, 1)
	assert.Equal(t, "category", failures[0].Field)
	assert.Equal(t, "Category must be a valid product category", failures[0].Message)
}

func TestValidate_ImageURLRules(t *testing.T) {
	tests := []struct {
		name     string
		imageURL *string
		valid    bool
	}{
		{"absent image is fine", nil, true},
		{"https jpg", strPtr("https://example.com/a.jpg"), true},
		{"http webp", strPtr("http://example.com/a.webp"), true},
		{"uppercase extension", strPtr("https://example.com/a.PNG"), true},
		{"ftp scheme", strPtr("ftp://example.com/a.jpg"), false},
		{"no extension", strPtr("https://example.com/a"), false},
		{"wrong extension", strPtr("https://example.com/a.svg"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			expectCleanLookups(mockRepo)
			validator := newValidator(mockRepo)

			req := validBooksRequest()
			req.ImageURL = tt.imageURL

			failures, err := validator.Validate(context.Background(), req)

			assert.NoError(t, err)
			if tt.valid {
				assert.Empty(t, failures)
			} else {
				assert.Len(t, failures, 1)
				assert.Equal(t, "imageUrl", failures[0].Field)
			}
		})
	}
}

func TestValidate_DailyLimitReached(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("ExistsBySKU", mock.Anything, mock.Anything).Return(false, nil)
	mockRepo.On("ExistsByNameAndBrand", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	mockRepo.On("CountCreatedSince", mock.Anything, mock.Anything).Return(int64(100), nil)
	validator := newValidator(mockRepo)

	failures, err := validator.Validate(context.Background(), validBooksRequest())

	assert.NoError(t, err)
	assert.Len(t, failures, 1)
	assert.Equal(t, "request", failures[0].Field)
	assert.Equal(t, "Daily product creation limit of 100 reached", failures[0].Message)
}

func TestValidate_RepositoryErrorPropagates(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockRepo.On("ExistsBySKU", mock.Anything, mock.Anything).Return(false, fmt.Errorf("database unreachable"))
	validator := newValidator(mockRepo)

	failures, err := validator.Validate(context.Background(), validBooksRequest())

	// A broken lookup is not a validation failure.
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database unreachable")
	assert.Nil(t, failures)
}

func strPtr(s string) *string {
	return &s
}
