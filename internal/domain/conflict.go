package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClaimConflict is a log entry for one contradiction found by a check.
type ClaimConflict struct {
	ID             uuid.UUID   `json:"id"`
	SubjectID      string      `json:"subject_id"`
	ObjectID       string      `json:"object_id"`
	ClaimType      string      `json:"claim_type"`
	IncomingStatus ClaimStatus `json:"incoming_status"`
	CovariateID    string      `json:"covariate_id"`
	StoredStatus   ClaimStatus `json:"stored_status"`
	DetectedAt     time.Time   `json:"detected_at"`
}

// NewClaimConflict builds the log entry for claim contradicting stored.
func NewClaimConflict(claim *Claim, stored *StoredCovariate) *ClaimConflict {
	return &ClaimConflict{
		SubjectID:      claim.SubjectID,
		ObjectID:       claim.ObjectID,
		ClaimType:      claim.Type,
		IncomingStatus: claim.ClaimStatus(),
		CovariateID:    stored.ID,
		StoredStatus:   stored.ClaimStatus(),
	}
}
