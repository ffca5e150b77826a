package service

import (
	"errors"
	"fmt"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
)

var (
	ErrInvalidClaim        = errors.New("invalid claim")
	ErrClaimSubjectMissing = fmt.Errorf("%w: subject_id is required", ErrInvalidClaim)
	ErrClaimObjectMissing  = fmt.Errorf("%w: object_id is required", ErrInvalidClaim)
)

// ValidateClaim enforces the required identity fields. An empty string counts
// as missing.
func ValidateClaim(claim *domain.Claim) error {
	if claim == nil || claim.SubjectID == "" {
		return ErrClaimSubjectMissing
	}
	if claim.ObjectID == "" {
		return ErrClaimObjectMissing
	}
	return nil
}

// CheckSelfConsistency compares claim against the stored covariates of the
// same type and returns those with the same subject and object whose status
// is the opposite TRUE/FALSE value. Conflicts keep the order of the index.
// A nil source, a missing type bucket, nil attributes or a missing status
// all mean "no conflict". Neither claim nor src is modified.
func CheckSelfConsistency(claim *domain.Claim, src domain.CovariateSource) (*domain.ConsistencyResult, error) {
	if err := ValidateClaim(claim); err != nil {
		return nil, err
	}

	var index domain.CovariateIndex
	if src != nil {
		index = src.Covariates()
	}

	incoming := claim.ClaimStatus()
	conflicts := []domain.StoredCovariate{}
	for _, stored := range index.Lookup(claim.Type) {
		if stored.SubjectID != claim.SubjectID {
			continue
		}
		objectID, ok := stored.ObjectID()
		if !ok || objectID != claim.ObjectID {
			continue
		}
		if stored.ClaimStatus().Contradicts(incoming) {
			conflicts = append(conflicts, stored)
		}
	}

	return &domain.ConsistencyResult{
		IsConsistent: len(conflicts) == 0,
		Conflicts:    conflicts,
	}, nil
}
