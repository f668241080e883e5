package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	mrand "math/rand/v2"

	"catalog/internal/metrics"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/cache"
	"catalog/pkg/rabbitmq"

	"github.com/google/uuid"
)

const (
	operationIDChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	operationIDLength = 8
)

// EventPublisher publishes product-creation events to a message broker.
// *rabbitmq.Client satisfies it; tests supply mocks.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductService orchestrates product creation: validation, the duplicate-SKU
// gate, entity construction, persistence, cache invalidation, profile
// derivation, and metrics emission. External calls run strictly in sequence
// for one request; uniqueness under concurrent requests is enforced by the
// storage constraints, not by this service.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *ProductValidator
	cache     cache.Store
	publisher EventPublisher // optional; nil disables event publishing
	logger    *slog.Logger

	now            func() time.Time
	newOperationID func() string
}

// NewProductService creates a ProductService. publisher may be nil when no
// broker is configured.
func NewProductService(
	repo repositories.ProductRepository,
	productValidator *ProductValidator,
	cacheStore cache.Store,
	publisher EventPublisher,
	logger *slog.Logger,
) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{
		repo:           repo,
		validator:      productValidator,
		cache:          cacheStore,
		publisher:      publisher,
		logger:         logger,
		now:            time.Now,
		newOperationID: RandomOperationID,
	}
}

// SetOperationIDSource overrides the operation-id generator, so tests can
// assert deterministic ids.
func (s *ProductService) SetOperationIDSource(source func() string) {
	s.newOperationID = source
}

// SetClock overrides the time source.
func (s *ProductService) SetClock(now func() time.Time) {
	s.now = now
}

// RandomOperationID returns an 8-character uppercase alphanumeric id used to
// correlate every event of one creation attempt.
func RandomOperationID() string {
	id := make([]byte, operationIDLength)
	for i := range id {
		id[i] = operationIDChars[mrand.IntN(len(operationIDChars))]
	}
	return string(id)
}

// CreateProduct runs the full creation pipeline and returns the derived
// profile view. Failures come back as *ValidationError, *DuplicateSKUError,
// or the unexpected underlying error, each after a metrics emission for the
// attempt.
func (s *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.ProductProfile, error) {
	start := s.now()
	operationID := s.newOperationID()
	logger := s.logger.With("operation_id", operationID)

	logger.Info("product creation started",
		"name", req.Name,
		"brand", req.Brand,
		"sku", req.SKU,
		"category", req.Category.String(),
	)

	record := metrics.ProductCreation{
		OperationID: operationID,
		ProductName: req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
	}

	validationStart := s.now()
	failures, err := s.validator.Validate(ctx, req)
	if err != nil {
		return nil, s.failUnexpected(logger, &record, start, req.SKU, err)
	}
	if len(failures) > 0 {
		validationErr := &ValidationError{Failures: failures}
		logger.Warn("product validation failed",
			"sku", req.SKU,
			"failure_count", len(failures),
		)
		record.ValidationDuration = s.now().Sub(validationStart)
		record.TotalDuration = s.now().Sub(start)
		record.ErrorReason = validationErr.Error()
		s.emit(logger, &record)
		return nil, validationErr
	}

	// The validator already checked SKU uniqueness; this gate re-checks it
	// so a duplicate that slipped in between still fails before any write.
	exists, err := s.repo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, s.failUnexpected(logger, &record, start, req.SKU, err)
	}
	record.ValidationDuration = s.now().Sub(validationStart)
	logger.Info("SKU validation completed",
		"sku", req.SKU,
		"exists", exists,
		"validation_duration_ms", record.ValidationDuration.Milliseconds(),
	)
	if exists {
		return nil, s.failDuplicate(logger, &record, start, req.SKU)
	}

	// Defense in depth: the validator rejects negative stock already.
	validStock := req.StockQuantity >= 0
	logger.Info("stock validation completed",
		"stock_quantity", req.StockQuantity,
		"valid", validStock,
	)
	if !validStock {
		validationErr := &ValidationError{Failures: []models.ValidationFailure{
			{Field: "stockQuantity", Message: "Stock quantity cannot be negative"},
		}}
		record.TotalDuration = s.now().Sub(start)
		record.ErrorReason = validationErr.Error()
		s.emit(logger, &record)
		return nil, validationErr
	}

	product := &models.Product{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Brand:         req.Brand,
		SKU:           req.SKU,
		Category:      req.Category,
		Price:         req.Price,
		ReleaseDate:   req.ReleaseDate,
		ImageURL:      req.ImageURL,
		IsAvailable:   req.StockQuantity > 0,
		StockQuantity: req.StockQuantity,
		CreatedAt:     s.now().UTC(),
	}

	logger.Info("database save started", "product_name", product.Name)
	databaseStart := s.now()
	if err := s.repo.Create(ctx, product); err != nil {
		record.DatabaseSaveDuration = s.now().Sub(databaseStart)
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			return nil, s.failDuplicate(logger, &record, start, req.SKU)
		}
		return nil, s.failUnexpected(logger, &record, start, req.SKU, err)
	}
	record.DatabaseSaveDuration = s.now().Sub(databaseStart)
	logger.Info("database save completed",
		"product_id", product.ID,
		"operation_duration_ms", record.DatabaseSaveDuration.Milliseconds(),
	)

	cacheStart := s.now()
	if err := s.cache.Remove(ctx, cache.AllProductsKey); err != nil {
		return nil, s.failUnexpected(logger, &record, start, req.SKU, err)
	}
	logger.Info("cache invalidation completed",
		"cache_key", cache.AllProductsKey,
		"operation_duration_ms", s.now().Sub(cacheStart).Milliseconds(),
	)

	profile := BuildProductProfile(product, s.now())

	record.Success = true
	record.TotalDuration = s.now().Sub(start)
	s.emit(logger, &record)

	return profile, nil
}

// failDuplicate finalizes the metrics record for a duplicate-SKU failure and
// returns the typed error.
func (s *ProductService) failDuplicate(logger *slog.Logger, record *metrics.ProductCreation, start time.Time, sku string) error {
	duplicateErr := &DuplicateSKUError{SKU: sku}
	logger.Warn("SKU validation failed, duplicate SKU detected", "sku", sku)

	record.Success = false
	record.ErrorReason = duplicateErr.Error()
	record.TotalDuration = s.now().Sub(start)
	s.emit(logger, record)

	return duplicateErr
}

// failUnexpected finalizes the metrics record for an unexpected failure and
// re-signals the error unchanged.
func (s *ProductService) failUnexpected(logger *slog.Logger, record *metrics.ProductCreation, start time.Time, sku string, err error) error {
	logger.Error("unexpected error during product creation",
		"sku", sku,
		"error", err.Error(),
	)

	record.Success = false
	record.ErrorReason = err.Error()
	record.TotalDuration = s.now().Sub(start)
	s.emit(logger, record)

	return err
}

// emit logs the metrics record and, when a broker is wired, publishes it to
// the product events queue. Publish failures are logged, never fatal.
func (s *ProductService) emit(logger *slog.Logger, record *metrics.ProductCreation) {
	record.Emit(logger)

	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(record)
	if err != nil {
		logger.Warn("failed to marshal product creation event", "error", err.Error())
		return
	}
	if err := s.publisher.Publish("", rabbitmq.ProductEventsQueue, body); err != nil {
		logger.Warn("failed to publish product creation event", "error", err.Error())
	}
}
