package app

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/example/wds/internal/core/batch"
	"github.com/example/wds/internal/ctxutil"
	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/ports/secondary"
)

// BatchServiceImpl implements the BatchService interface.
type BatchServiceImpl struct {
	tx        secondary.Transactor
	batchRepo secondary.BatchRepository
	stageRepo secondary.StagingRepository
	auditRepo secondary.AuditRepository
	logger    logrus.FieldLogger
}

// NewBatchService creates a new BatchService with injected dependencies.
func NewBatchService(
	tx secondary.Transactor,
	batchRepo secondary.BatchRepository,
	stageRepo secondary.StagingRepository,
	auditRepo secondary.AuditRepository,
	logger logrus.FieldLogger,
) *BatchServiceImpl {
	return &BatchServiceImpl{
		tx:        tx,
		batchRepo: batchRepo,
		stageRepo: stageRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ListBatches retrieves batches, newest first.
func (s *BatchServiceImpl) ListBatches(ctx context.Context, filters primary.BatchFilters) ([]*primary.Batch, error) {
	records, err := s.batchRepo.List(ctx, secondary.BatchFilters{
		Status: strings.ToUpper(filters.Status),
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list batches")
	}

	batches := make([]*primary.Batch, len(records))
	for i, r := range records {
		counts, err := s.stageRepo.CountByStatus(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		b := recordToBatch(r)
		b.RowCounts = counts
		batches[i] = b
	}
	return batches, nil
}

// GetBatch retrieves a batch with its row and audit counts.
func (s *BatchServiceImpl) GetBatch(ctx context.Context, batchID int64) (*primary.Batch, error) {
	record, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, errors.Wrapf(err, "batch %d", batchID)
	}

	b := recordToBatch(record)
	if b.RowCounts, err = s.stageRepo.CountByStatus(ctx, batchID); err != nil {
		return nil, err
	}
	if b.AuditCount, err = s.auditRepo.CountByBatch(ctx, batchID); err != nil {
		return nil, err
	}
	return b, nil
}

// Review approves or rejects a batch and all of its unconsumed rows.
func (s *BatchServiceImpl) Review(ctx context.Context, batchID int64, decision string) (*primary.BatchReviewResponse, error) {
	target := batch.Status(strings.ToUpper(decision))

	resp := &primary.BatchReviewResponse{BatchID: batchID, Status: string(target)}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.batchRepo.GetByID(ctx, batchID)
		if err != nil {
			return errors.Wrapf(err, "batch %d", batchID)
		}
		processed, err := s.stageRepo.CountProcessed(ctx, batchID)
		if err != nil {
			return err
		}

		guard := batch.CanReview(batch.ReviewContext{
			BatchID:       batchID,
			Status:        batch.Status(record.Status),
			ProcessedRows: processed,
			Target:        target,
		})
		if err := guard.Error(); err != nil {
			return err
		}

		if err := s.batchRepo.UpdateStatus(ctx, batchID, string(target)); err != nil {
			return err
		}
		resp.RowsChanged, err = s.stageRepo.UpdateUnprocessedStatus(ctx, batchID, string(target))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"batch_id": batchID,
		"status":   target,
		"rows":     resp.RowsChanged,
		"actor":    ctxutil.ActorFromContext(ctx),
	}).Info("batch reviewed")

	return resp, nil
}

func recordToBatch(r *secondary.BatchRecord) *primary.Batch {
	return &primary.Batch{
		ID:         r.ID,
		Name:       r.Name,
		SourceType: r.SourceType,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}

var _ primary.BatchService = (*BatchServiceImpl)(nil)
