package primary

import "context"

// StagingService defines the primary port for intake and row-level review.
type StagingService interface {
	// SubmitBatch validates every change and stores them as one PENDING batch.
	// Nothing is stored when any change is invalid.
	SubmitBatch(ctx context.Context, req SubmitBatchRequest) (*SubmitBatchResponse, error)

	// StageChange stores a single PENDING change outside any batch.
	StageChange(ctx context.Context, change ChangeInput) (*StagingRow, error)

	// ListStaging retrieves staged rows matching the filters.
	ListStaging(ctx context.Context, filters StagingFilters) ([]*StagingRow, error)

	// Review approves or rejects one row that apply has not consumed.
	Review(ctx context.Context, stagingID int64, decision string) (*StagingRow, error)
}

// ChangeInput is one proposed change as supplied by intake.
type ChangeInput struct {
	PersonID      string `validate:"required_if=ActionType UPDATE"`
	ActionType    string `validate:"required,oneof=NEW UPDATE"`
	SpecialtyName string `validate:"required"`
	RegionName    string `validate:"required"`
	WorkplaceName string `validate:"required"`
	SourceNote    string
	Line          int // source line for error messages, zero when unknown
}

// SubmitBatchRequest contains parameters for submitting a batch of changes.
type SubmitBatchRequest struct {
	Name       string
	SourceType string
	Changes    []ChangeInput
}

// SubmitBatchResponse contains the result of submitting a batch.
type SubmitBatchResponse struct {
	BatchID   int64
	RowsAdded int
}

// StagingRow represents a staged change at the port boundary.
type StagingRow struct {
	ID            int64
	PersonID      string
	ActionType    string
	SpecialtyName string
	RegionName    string
	WorkplaceName string
	SourceNote    string
	Status        string
	BatchID       int64
	CreatedAt     string
	ProcessedAt   string
}

// StagingFilters contains filter options for listing staged rows.
type StagingFilters struct {
	Status  string
	BatchID int64
	Limit   int
}
