package domain

import "strings"

// ClaimStatus is the truth label of a claim, normalized from its raw text.
type ClaimStatus string

const (
	StatusTrue    ClaimStatus = "TRUE"
	StatusFalse   ClaimStatus = "FALSE"
	StatusUnknown ClaimStatus = ""
)

// ParseClaimStatus trims and uppercases raw. Anything other than TRUE or
// FALSE, including the empty string, is StatusUnknown.
func ParseClaimStatus(raw string) ClaimStatus {
	switch ClaimStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusTrue:
		return StatusTrue
	case StatusFalse:
		return StatusFalse
	default:
		return StatusUnknown
	}
}

func (s ClaimStatus) Known() bool {
	return s == StatusTrue || s == StatusFalse
}

// Contradicts reports a strict TRUE/FALSE flip. Unknown never contradicts.
func (s ClaimStatus) Contradicts(other ClaimStatus) bool {
	return s.Known() && other.Known() && s != other
}

// Claim is a covariate freshly extracted from text and not yet stored.
type Claim struct {
	SubjectID string `json:"subject_id" yaml:"subject_id"`
	ObjectID  string `json:"object_id" yaml:"object_id"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`

	CovariateType string   `json:"covariate_type,omitempty" yaml:"covariate_type,omitempty"`
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	RecordID      int      `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	DocID         string   `json:"doc_id,omitempty" yaml:"doc_id,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	SourceText    []string `json:"source_text,omitempty" yaml:"source_text,omitempty"`
	StartDate     string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate       string   `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

// ClaimStatus returns the parsed status of the claim.
func (c *Claim) ClaimStatus() ClaimStatus {
	return ParseClaimStatus(c.Status)
}
