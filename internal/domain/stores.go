package domain

import "context"

// CovariateStore is the read side of the covariate index.
type CovariateStore interface {
	// ListByType returns covariates of one type in insertion order.
	ListByType(ctx context.Context, covariateType string) ([]StoredCovariate, error)
}

type ConflictStore interface {
	// CreateBatch writes every record or none of them.
	CreateBatch(ctx context.Context, conflicts []*ClaimConflict) error
	ListBySubject(ctx context.Context, subjectID string, limit int) ([]ClaimConflict, error)
}
