package store

import (
	"context"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CovariateStore reads covariates written by the indexing pipeline.
// It never writes to the covariates table.
type CovariateStore struct {
	db *pgxpool.Pool
}

func NewCovariateStore(db *pgxpool.Pool) *CovariateStore {
	return &CovariateStore{db: db}
}

func (s *CovariateStore) ListByType(ctx context.Context, covariateType string) ([]domain.StoredCovariate, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, COALESCE(short_id, ''), subject_id, COALESCE(subject_type, ''),
		        covariate_type, COALESCE(text_unit_ids, '{}'), attributes
		 FROM covariates WHERE type = $1
		 ORDER BY seq`,
		covariateType,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var covariates []domain.StoredCovariate
	for rows.Next() {
		var c domain.StoredCovariate
		var attrs map[string]any
		if err := rows.Scan(&c.ID, &c.ShortID, &c.SubjectID, &c.SubjectType,
			&c.CovariateType, &c.TextUnitIDs, &attrs); err != nil {
			return nil, err
		}
		c.Attributes = domain.FlattenAttributes(attrs)
		covariates = append(covariates, c)
	}
	return covariates, rows.Err()
}
