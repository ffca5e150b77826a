package store

import (
	"context"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConflictStore struct {
	db *pgxpool.Pool
}

func NewConflictStore(db *pgxpool.Pool) *ConflictStore {
	return &ConflictStore{db: db}
}

const insertConflictSQL = `INSERT INTO claim_conflicts (subject_id, object_id, claim_type, incoming_status, covariate_id, stored_status)
	 VALUES ($1, $2, $3, $4, $5, $6)
	 RETURNING id, detected_at`

// CreateBatch inserts all records in a single transaction and fills in their
// ids and detection times. A failed insert rolls back the whole batch.
func (s *ConflictStore) CreateBatch(ctx context.Context, conflicts []*domain.ClaimConflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range conflicts {
			batch.Queue(insertConflictSQL,
				c.SubjectID, c.ObjectID, c.ClaimType, string(c.IncomingStatus), c.CovariateID, string(c.StoredStatus),
			).QueryRow(func(row pgx.Row) error {
				return row.Scan(&c.ID, &c.DetectedAt)
			})
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (s *ConflictStore) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.ClaimConflict, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, subject_id, object_id, claim_type, incoming_status, covariate_id, stored_status, detected_at
		 FROM claim_conflicts WHERE subject_id = $1
		 ORDER BY detected_at DESC
		 LIMIT $2`,
		subjectID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ClaimConflict
	for rows.Next() {
		var c domain.ClaimConflict
		var incoming, stored string
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.ObjectID, &c.ClaimType, &incoming,
			&c.CovariateID, &stored, &c.DetectedAt); err != nil {
			return nil, err
		}
		c.IncomingStatus = domain.ClaimStatus(incoming)
		c.StoredStatus = domain.ClaimStatus(stored)
		results = append(results, c)
	}
	return results, rows.Err()
}
