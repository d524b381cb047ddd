package app

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/wds/internal/core/apply"
	"github.com/example/wds/internal/core/batch"
	"github.com/example/wds/internal/core/dimension"
	"github.com/example/wds/internal/core/staging"
	"github.com/example/wds/internal/ctxutil"
	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/ports/secondary"
)

// ApplyServiceImpl implements the ApplyService interface. It is the batch
// apply engine: the only component that writes persons and audit entries.
type ApplyServiceImpl struct {
	tx         secondary.Transactor
	dimRepo    secondary.DimensionRepository
	personRepo secondary.PersonRepository
	stageRepo  secondary.StagingRepository
	batchRepo  secondary.BatchRepository
	auditRepo  secondary.AuditRepository
	logger     logrus.FieldLogger
	metrics    *ApplyMetrics
	now        func() time.Time

	// mu serializes apply runs within the process.
	mu sync.Mutex
}

// NewApplyService creates a new ApplyService with injected dependencies.
func NewApplyService(
	tx secondary.Transactor,
	dimRepo secondary.DimensionRepository,
	personRepo secondary.PersonRepository,
	stageRepo secondary.StagingRepository,
	batchRepo secondary.BatchRepository,
	auditRepo secondary.AuditRepository,
	logger logrus.FieldLogger,
	metrics *ApplyMetrics,
) *ApplyServiceImpl {
	if metrics == nil {
		metrics = NewApplyMetrics(nil)
	}
	return &ApplyServiceImpl{
		tx:         tx,
		dimRepo:    dimRepo,
		personRepo: personRepo,
		stageRepo:  stageRepo,
		batchRepo:  batchRepo,
		auditRepo:  auditRepo,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

// ApplyBatch applies the APPROVED rows of one batch atomically.
func (s *ApplyServiceImpl) ApplyBatch(ctx context.Context, batchID int64) (*primary.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.applyBatch(s.withRun(ctx), batchID)
}

// ApplyApproved applies one batch when batchID is set, or all approved work.
func (s *ApplyServiceImpl) ApplyApproved(ctx context.Context, batchID *int64) ([]*primary.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = s.withRun(ctx)

	if batchID != nil {
		result, err := s.applyBatch(ctx, *batchID)
		if err != nil {
			return nil, err
		}
		return []*primary.BatchResult{result}, nil
	}

	if _, err := s.collectOrphanedApprovals(ctx); err != nil {
		return nil, err
	}

	ids, err := s.batchRepo.ListIDsByStatus(ctx, string(batch.StatusApproved))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list approved batches")
	}

	results := make([]*primary.BatchResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.applyBatch(ctx, id)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ApplyServiceImpl) withRun(ctx context.Context) context.Context {
	if ctxutil.RunIDFromContext(ctx) != "" {
		return ctx
	}
	return ctxutil.WithRunID(ctx, uuid.NewString())
}

func (s *ApplyServiceImpl) log(ctx context.Context) logrus.FieldLogger {
	return s.logger.WithFields(logrus.Fields{
		"run_id": ctxutil.RunIDFromContext(ctx),
		"actor":  ctxutil.ActorFromContext(ctx),
	})
}

// collectOrphanedApprovals groups APPROVED rows that have no batch into a new
// SYSTEM_AUTO batch. It returns the new batch id, or zero when there were none.
func (s *ApplyServiceImpl) collectOrphanedApprovals(ctx context.Context) (int64, error) {
	var batchID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.stageRepo.CountOrphanedApproved(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		record := &secondary.BatchRecord{
			Name:       batch.AutoBatchName(s.now()),
			SourceType: string(batch.SourceSystemAuto),
			Status:     string(batch.StatusApproved),
		}
		if err := s.batchRepo.Create(ctx, record); err != nil {
			return err
		}
		if _, err := s.stageRepo.AssignOrphanedApproved(ctx, record.ID); err != nil {
			return err
		}
		batchID = record.ID

		s.log(ctx).WithFields(logrus.Fields{
			"batch_id": record.ID,
			"rows":     n,
		}).Info("grouped orphaned approvals into auto batch")
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to collect orphaned approvals")
	}
	return batchID, nil
}

func (s *ApplyServiceImpl) applyBatch(ctx context.Context, batchID int64) (*primary.BatchResult, error) {
	start := time.Now()
	logger := s.log(ctx).WithField("batch_id", batchID)

	var result *primary.BatchResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.batchRepo.GetByID(ctx, batchID); err != nil {
			return err
		}

		rows, err := s.stageRepo.ListApproved(ctx, batchID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			result = &primary.BatchResult{BatchID: batchID, BatchStatus: string(batch.StatusNoop)}
			return nil
		}

		var tally apply.Tally
		for _, row := range rows {
			outcome, err := s.applyRow(ctx, batchID, row)
			if err != nil {
				return errors.Wrapf(err, "staging row %d", row.ID)
			}

			if outcome.OK() {
				err = s.stageRepo.MarkApplied(ctx, row.ID)
			} else {
				logger.WithFields(logrus.Fields{
					"staging_id": row.ID,
					"reason":     outcome.Rejection.Reason,
				}).Warn("row rejected")
				err = s.stageRepo.MarkRejected(ctx, row.ID, staging.AppendNote(row.SourceNote, outcome.Rejection.Note()))
			}
			if err != nil {
				return errors.Wrapf(err, "staging row %d", row.ID)
			}
			tally.Add(outcome)
		}

		status := tally.Status()
		if err := s.batchRepo.UpdateStatus(ctx, batchID, string(status)); err != nil {
			return err
		}

		result = &primary.BatchResult{
			BatchID:      batchID,
			TotalRows:    tally.Total,
			AppliedRows:  tally.Applied,
			RejectedRows: tally.Rejected,
			BatchStatus:  string(status),
		}
		return nil
	})
	if err != nil {
		s.metrics.Failures.Inc()
		logger.WithError(err).Error("batch apply rolled back")
		return nil, errors.Wrapf(err, "apply batch %d", batchID)
	}

	s.metrics.Duration.Observe(time.Since(start).Seconds())
	s.metrics.Batches.WithLabelValues(result.BatchStatus).Inc()
	s.metrics.Rows.WithLabelValues("applied").Add(float64(result.AppliedRows))
	s.metrics.Rows.WithLabelValues("rejected").Add(float64(result.RejectedRows))

	logger.WithFields(logrus.Fields{
		"total":    result.TotalRows,
		"applied":  result.AppliedRows,
		"rejected": result.RejectedRows,
		"status":   result.BatchStatus,
	}).Info("batch applied")

	return result, nil
}

// applyRow decides and performs one staged change. Validation failures and
// store conflicts come back as a rejected outcome; any other error is an
// infrastructure fault that must abort the batch.
func (s *ApplyServiceImpl) applyRow(ctx context.Context, batchID int64, row *secondary.StagingRecord) (apply.Outcome, error) {
	personID := apply.NormalizeText(row.PersonID)
	action := apply.NormalizeAction(row.ActionType)

	var requested dimension.Names
	requested.Set(dimension.KindSpecialty, apply.NormalizeText(row.SpecialtyName))
	requested.Set(dimension.KindRegion, apply.NormalizeText(row.RegionName))
	requested.Set(dimension.KindWorkplace, apply.NormalizeText(row.WorkplaceName))

	var (
		ids      dimension.IDs
		resolved dimension.Names
	)
	// Kinds resolved before a missing name keep their new rows.
	for _, kind := range dimension.Kinds() {
		if guard := apply.CanResolveName(kind, requested.Get(kind)); !guard.Allowed {
			return apply.Reject(row.ID, guard.Reason), nil
		}
		record, err := s.dimRepo.GetOrCreate(ctx, kind, requested.Get(kind))
		if err != nil {
			return rejectOnConflict(row.ID, err)
		}
		ids.Set(kind, record.ID)
		resolved.Set(kind, record.Name)
	}

	var (
		before *secondary.PersonRecord
		exists bool
		err    error
	)
	switch {
	case personID == "":
	case action == staging.ActionUpdate:
		before, err = s.personRepo.GetByID(ctx, personID)
		if err != nil && !errors.Is(err, secondary.ErrNotFound) {
			return apply.Outcome{}, err
		}
		exists = before != nil && err == nil
	case action == staging.ActionNew:
		exists, err = s.personRepo.Exists(ctx, personID)
		if err != nil {
			return apply.Outcome{}, err
		}
	}

	guard := apply.CanApplyRow(apply.RowContext{
		Action:       action,
		RawAction:    row.ActionType,
		PersonID:     personID,
		PersonExists: exists,
	})
	if !guard.Allowed {
		return apply.Reject(row.ID, guard.Reason), nil
	}

	var summary string
	switch action {
	case staging.ActionNew:
		if err := s.personRepo.Create(ctx, &secondary.PersonRecord{PersonID: personID, IDs: ids}); err != nil {
			return rejectOnConflict(row.ID, err)
		}
		summary = apply.CreatedSummary(resolved)
	case staging.ActionUpdate:
		if err := s.personRepo.UpdateDimensions(ctx, personID, ids); err != nil {
			return rejectOnConflict(row.ID, err)
		}
		summary = apply.ChangeSummary(before.Names, resolved)
	default:
		return apply.Outcome{}, errors.Errorf("unhandled action %q", action)
	}

	if err := s.auditRepo.Append(ctx, &secondary.AuditRecord{
		PersonID:      personID,
		BatchID:       batchID,
		ActionType:    action,
		ChangeSummary: summary,
	}); err != nil {
		return apply.Outcome{}, errors.Wrap(err, "audit write failed")
	}

	return apply.Succeed(row.ID, personID, action, summary), nil
}

func rejectOnConflict(stagingID int64, err error) (apply.Outcome, error) {
	if errors.Is(err, secondary.ErrConflict) {
		return apply.Reject(stagingID, err.Error()), nil
	}
	return apply.Outcome{}, err
}

var _ primary.ApplyService = (*ApplyServiceImpl)(nil)
