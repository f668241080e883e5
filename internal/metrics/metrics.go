// Package metrics holds the per-attempt summary record for product creation
// and its structured emission.
package metrics

import (
	"log/slog"
	"time"

	"catalog/internal/models"
)

// ProductCreation is an immutable summary of one creation attempt. Durations
// for stages that were never reached stay zero.
type ProductCreation struct {
	OperationID          string                 `json:"operationId"`
	ProductName          string                 `json:"productName"`
	SKU                  string                 `json:"sku"`
	Category             models.ProductCategory `json:"category"`
	ValidationDuration   time.Duration          `json:"-"`
	DatabaseSaveDuration time.Duration          `json:"-"`
	TotalDuration        time.Duration          `json:"-"`
	Success              bool                   `json:"success"`
	ErrorReason          string                 `json:"errorReason,omitempty"`

	// Millisecond views of the durations, the shape consumers see.
	ValidationDurationMs   float64 `json:"validationDurationMs"`
	DatabaseSaveDurationMs float64 `json:"databaseSaveDurationMs"`
	TotalDurationMs        float64 `json:"totalDurationMs"`
}

// Finalize fills the millisecond fields from the duration fields.
func (m *ProductCreation) Finalize() {
	m.ValidationDurationMs = durationMs(m.ValidationDuration)
	m.DatabaseSaveDurationMs = durationMs(m.DatabaseSaveDuration)
	m.TotalDurationMs = durationMs(m.TotalDuration)
}

// Emit logs the record once: Info on success, Error on failure.
func (m *ProductCreation) Emit(logger *slog.Logger) {
	m.Finalize()

	attrs := []any{
		"operation_id", m.OperationID,
		"product_name", m.ProductName,
		"sku", m.SKU,
		"category", m.Category.String(),
		"success", m.Success,
		"validation_duration_ms", m.ValidationDurationMs,
		"database_save_duration_ms", m.DatabaseSaveDurationMs,
		"total_duration_ms", m.TotalDurationMs,
	}
	if m.ErrorReason != "" {
		attrs = append(attrs, "error_reason", m.ErrorReason)
	}

	if m.Success {
		logger.Info("product creation succeeded", attrs...)
	} else {
		logger.Error("product creation failed", attrs...)
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
