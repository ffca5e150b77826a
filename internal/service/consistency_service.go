package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"go.uber.org/zap"
)

var ErrConflictLogDisabled = errors.New("conflict log is not enabled")

const defaultConflictListLimit = 50

// IndexCache holds per-type covariate buckets between checks.
type IndexCache interface {
	Get(claimType string) ([]domain.StoredCovariate, bool)
	Set(claimType string, bucket []domain.StoredCovariate)
	Invalidate(claimType string)
}

// CheckResult is a ConsistencyResult plus the number of conflicts written to
// the conflict log.
type CheckResult struct {
	domain.ConsistencyResult
	Recorded int `json:"recorded"`
}

type ConsistencyService struct {
	covariateStore domain.CovariateStore
	conflictStore  domain.ConflictStore
	cache          IndexCache
	logger         *zap.Logger
}

func NewConsistencyService(cs domain.CovariateStore, logger *zap.Logger) *ConsistencyService {
	return &ConsistencyService{
		covariateStore: cs,
		logger:         logger,
	}
}

// SetConflictStore enables recording of detected conflicts.
func (s *ConsistencyService) SetConflictStore(cs domain.ConflictStore) {
	s.conflictStore = cs
}

func (s *ConsistencyService) SetIndexCache(c IndexCache) {
	s.cache = c
}

// Check loads the bucket for the claim's type and runs CheckSelfConsistency
// against it. When a conflict store is set, the conflicts are logged there as
// one batch; on a recording error nothing is persisted and no result is
// returned.
func (s *ConsistencyService) Check(ctx context.Context, claim *domain.Claim) (*CheckResult, error) {
	if err := ValidateClaim(claim); err != nil {
		return nil, err
	}

	bucket, err := s.bucket(ctx, claim.Type)
	if err != nil {
		return nil, err
	}

	res, err := CheckSelfConsistency(claim, domain.CovariateIndex{claim.Type: bucket})
	if err != nil {
		return nil, err
	}

	result := &CheckResult{ConsistencyResult: *res}
	if res.IsConsistent {
		s.logger.Debug("claim consistent",
			zap.String("subject_id", claim.SubjectID),
			zap.String("object_id", claim.ObjectID),
			zap.String("type", claim.Type),
			zap.Int("candidates", len(bucket)),
		)
		return result, nil
	}

	s.logger.Info("claim conflicts with stored covariates",
		zap.String("subject_id", claim.SubjectID),
		zap.String("object_id", claim.ObjectID),
		zap.String("type", claim.Type),
		zap.String("status", string(claim.ClaimStatus())),
		zap.Int("conflicts", len(res.Conflicts)),
	)

	if s.conflictStore == nil {
		return result, nil
	}
	records := make([]*domain.ClaimConflict, len(res.Conflicts))
	for i := range res.Conflicts {
		records[i] = domain.NewClaimConflict(claim, &res.Conflicts[i])
	}
	if err := s.conflictStore.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("record %d conflicts: %w", len(records), err)
	}
	result.Recorded = len(records)
	return result, nil
}

func (s *ConsistencyService) bucket(ctx context.Context, claimType string) ([]domain.StoredCovariate, error) {
	if s.cache != nil {
		if bucket, ok := s.cache.Get(claimType); ok {
			return bucket, nil
		}
	}

	bucket, err := s.covariateStore.ListByType(ctx, claimType)
	if err != nil {
		return nil, fmt.Errorf("load covariates of type %q: %w", claimType, err)
	}

	if s.cache != nil {
		s.cache.Set(claimType, bucket)
	}
	return bucket, nil
}

// Invalidate drops the cached bucket for claimType. Callers that mutate the
// covariate index call this so the next check sees the change.
func (s *ConsistencyService) Invalidate(claimType string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(claimType)
	s.logger.Debug("covariate bucket invalidated", zap.String("type", claimType))
}

func (s *ConsistencyService) ListConflicts(ctx context.Context, subjectID string, limit int) ([]domain.ClaimConflict, error) {
	if s.conflictStore == nil {
		return nil, ErrConflictLogDisabled
	}
	if subjectID == "" {
		return nil, ErrClaimSubjectMissing
	}
	if limit <= 0 {
		limit = defaultConflictListLimit
	}
	return s.conflictStore.ListBySubject(ctx, subjectID, limit)
}
