package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/example/wds/internal/core/apply"
	"github.com/example/wds/internal/core/batch"
	"github.com/example/wds/internal/core/staging"
	"github.com/example/wds/internal/ctxutil"
	"github.com/example/wds/internal/ports/primary"
	"github.com/example/wds/internal/ports/secondary"
)

// IntakeError lists every invalid change in a rejected submission.
type IntakeError struct {
	Problems []string
}

func (e *IntakeError) Error() string {
	return fmt.Sprintf("%d invalid change(s): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

var fieldColumns = map[string]string{
	"PersonID":      "person_id",
	"ActionType":    "action_type",
	"SpecialtyName": "specialty_name",
	"RegionName":    "region_name",
	"WorkplaceName": "workplace_name",
}

// StagingServiceImpl implements the StagingService interface.
type StagingServiceImpl struct {
	tx        secondary.Transactor
	stageRepo secondary.StagingRepository
	batchRepo secondary.BatchRepository
	validate  *validator.Validate
	logger    logrus.FieldLogger
}

// NewStagingService creates a new StagingService with injected dependencies.
func NewStagingService(
	tx secondary.Transactor,
	stageRepo secondary.StagingRepository,
	batchRepo secondary.BatchRepository,
	logger logrus.FieldLogger,
) *StagingServiceImpl {
	return &StagingServiceImpl{
		tx:        tx,
		stageRepo: stageRepo,
		batchRepo: batchRepo,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
	}
}

// SubmitBatch validates every change and stores them as one PENDING batch.
func (s *StagingServiceImpl) SubmitBatch(ctx context.Context, req primary.SubmitBatchRequest) (*primary.SubmitBatchResponse, error) {
	if len(req.Changes) == 0 {
		return nil, errors.New("submission contains no changes")
	}

	sourceType := batch.SourceFileUpload
	if req.SourceType != "" {
		parsed, err := batch.ParseSourceType(strings.ToUpper(req.SourceType))
		if err != nil {
			return nil, err
		}
		sourceType = parsed
	}

	changes := make([]primary.ChangeInput, len(req.Changes))
	var problems []string
	for i, change := range req.Changes {
		if change.Line == 0 {
			change.Line = i + 1
		}
		changes[i] = normalizeChange(change)
		problems = append(problems, s.check(changes[i])...)
	}
	if len(problems) > 0 {
		return nil, &IntakeError{Problems: problems}
	}

	resp := &primary.SubmitBatchResponse{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record := &secondary.BatchRecord{
			Name:       req.Name,
			SourceType: string(sourceType),
			Status:     string(batch.StatusPending),
		}
		if err := s.batchRepo.Create(ctx, record); err != nil {
			return errors.Wrap(err, "failed to create batch")
		}
		resp.BatchID = record.ID

		for _, change := range changes {
			row := toStagingRecord(change)
			row.BatchID = record.ID
			if err := s.stageRepo.Create(ctx, row); err != nil {
				return errors.Wrapf(err, "line %d", change.Line)
			}
			resp.RowsAdded++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"batch_id": resp.BatchID,
		"rows":     resp.RowsAdded,
		"source":   sourceType,
		"actor":    ctxutil.ActorFromContext(ctx),
	}).Info("batch submitted")

	return resp, nil
}

// StageChange stores a single PENDING change outside any batch.
func (s *StagingServiceImpl) StageChange(ctx context.Context, change primary.ChangeInput) (*primary.StagingRow, error) {
	change = normalizeChange(change)
	if problems := s.check(change); len(problems) > 0 {
		return nil, &IntakeError{Problems: problems}
	}

	row := toStagingRecord(change)
	if err := s.stageRepo.Create(ctx, row); err != nil {
		return nil, errors.Wrap(err, "failed to stage change")
	}

	created, err := s.stageRepo.GetByID(ctx, row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch staged change")
	}
	return toStagingRow(created), nil
}

// ListStaging retrieves staged rows matching the filters.
func (s *StagingServiceImpl) ListStaging(ctx context.Context, filters primary.StagingFilters) ([]*primary.StagingRow, error) {
	records, err := s.stageRepo.List(ctx, secondary.StagingFilters{
		Status:  strings.ToUpper(filters.Status),
		BatchID: filters.BatchID,
		Limit:   filters.Limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list staging rows")
	}

	rows := make([]*primary.StagingRow, len(records))
	for i, r := range records {
		rows[i] = toStagingRow(r)
	}
	return rows, nil
}

// Review approves or rejects one row that apply has not consumed.
func (s *StagingServiceImpl) Review(ctx context.Context, stagingID int64, decision string) (*primary.StagingRow, error) {
	target := staging.Status(strings.ToUpper(decision))

	var updated *secondary.StagingRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, err := s.stageRepo.GetByID(ctx, stagingID)
		if err != nil {
			return errors.Wrapf(err, "staging row %d", stagingID)
		}

		guard := staging.CanReview(staging.ReviewContext{
			StagingID: stagingID,
			Status:    staging.Status(record.Status),
			Processed: record.ProcessedAt != "",
			Target:    target,
		})
		if err := guard.Error(); err != nil {
			return err
		}

		if err := s.stageRepo.UpdateStatus(ctx, stagingID, string(target)); err != nil {
			return err
		}
		updated, err = s.stageRepo.GetByID(ctx, stagingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"staging_id": stagingID,
		"status":     target,
		"actor":      ctxutil.ActorFromContext(ctx),
	}).Info("staging row reviewed")

	return toStagingRow(updated), nil
}

// check validates a normalized change and returns one message per problem.
func (s *StagingServiceImpl) check(change primary.ChangeInput) []string {
	err := s.validate.Struct(change)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("line %d: %v", change.Line, err)}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		col := fieldColumns[fe.Field()]
		var msg string
		switch fe.Tag() {
		case "required":
			msg = col + " is required"
		case "required_if":
			msg = col + " is required for UPDATE"
		case "oneof":
			msg = fmt.Sprintf("%s must be NEW or UPDATE (got %q)", col, fe.Value())
		default:
			msg = fmt.Sprintf("%s failed %s", col, fe.Tag())
		}
		problems = append(problems, fmt.Sprintf("line %d: %s", change.Line, msg))
	}
	return problems
}

func normalizeChange(c primary.ChangeInput) primary.ChangeInput {
	c.PersonID = apply.NormalizeText(c.PersonID)
	c.ActionType = apply.NormalizeAction(c.ActionType)
	c.SpecialtyName = apply.NormalizeText(c.SpecialtyName)
	c.RegionName = apply.NormalizeText(c.RegionName)
	c.WorkplaceName = apply.NormalizeText(c.WorkplaceName)
	c.SourceNote = strings.TrimSpace(c.SourceNote)
	return c
}

func toStagingRecord(c primary.ChangeInput) *secondary.StagingRecord {
	return &secondary.StagingRecord{
		PersonID:      c.PersonID,
		ActionType:    c.ActionType,
		SpecialtyName: c.SpecialtyName,
		RegionName:    c.RegionName,
		WorkplaceName: c.WorkplaceName,
		SourceNote:    c.SourceNote,
		Status:        string(staging.StatusPending),
	}
}

func toStagingRow(r *secondary.StagingRecord) *primary.StagingRow {
	return &primary.StagingRow{
		ID:            r.ID,
		PersonID:      r.PersonID,
		ActionType:    r.ActionType,
		SpecialtyName: r.SpecialtyName,
		RegionName:    r.RegionName,
		WorkplaceName: r.WorkplaceName,
		SourceNote:    r.SourceNote,
		Status:        r.Status,
		BatchID:       r.BatchID,
		CreatedAt:     r.CreatedAt,
		ProcessedAt:   r.ProcessedAt,
	}
}

var _ primary.StagingService = (*StagingServiceImpl)(nil)
