package usecase

import (
	"context"

	"payrecon/internal/domain"
)

// TableRepository loads one uploaded file into a normalized table.
// The usecase layer depends on this interface, not on a concrete
// implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go TableRepository
type TableRepository interface {
	Load(ctx context.Context, path string) (*domain.Table, error)
}

// MappingSuggester is the narrow contract to the external service that
// proposes field-mapping overrides when uploaded files drift from the
// configured schema. The core never constructs one and tolerates its
// absence.
type MappingSuggester interface {
	SuggestMapping(ctx context.Context, summaries []domain.ColumnSummary) (*domain.ConfigOverride, error)
}
