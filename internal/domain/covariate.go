package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Attribute keys read from a stored covariate.
const (
	AttrObjectID = "object_id"
	AttrStatus   = "status"
)

// StoredCovariate is a claim already recorded by the indexing subsystem.
type StoredCovariate struct {
	ID            string            `json:"id" yaml:"id"`
	ShortID       string            `json:"short_id,omitempty" yaml:"short_id,omitempty"`
	SubjectID     string            `json:"subject_id" yaml:"subject_id"`
	SubjectType   string            `json:"subject_type,omitempty" yaml:"subject_type,omitempty"`
	CovariateType string            `json:"covariate_type,omitempty" yaml:"covariate_type,omitempty"`
	TextUnitIDs   []string          `json:"text_unit_ids,omitempty" yaml:"text_unit_ids,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// ObjectID returns attributes["object_id"]. ok is false when the attribute
// map is nil or has no object_id.
func (c *StoredCovariate) ObjectID() (id string, ok bool) {
	id, ok = c.Attributes[AttrObjectID]
	return id, ok
}

// ClaimStatus returns the parsed attributes["status"], StatusUnknown if absent.
func (c *StoredCovariate) ClaimStatus() ClaimStatus {
	raw, ok := c.Attributes[AttrStatus]
	if !ok {
		return StatusUnknown
	}
	return ParseClaimStatus(raw)
}

// FlattenAttributes converts decoded JSON or YAML attribute values to
// strings. Booleans become TRUE/FALSE, numbers keep every digit and null
// values are dropped so they read as absent.
func FlattenAttributes(raw map[string]any) map[string]string {
	if raw == nil {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		case bool:
			if val {
				out[k] = "TRUE"
			} else {
				out[k] = "FALSE"
			}
		case json.Number:
			out[k] = val.String()
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case float32:
			out[k] = strconv.FormatFloat(float64(val), 'f', -1, 32)
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

// CovariateIndex maps a claim type to its stored covariates in insertion order.
// The "" key holds claims with no type.
type CovariateIndex map[string][]StoredCovariate

// Lookup returns the bucket for claimType, nil if the type is unknown.
func (idx CovariateIndex) Lookup(claimType string) []StoredCovariate {
	if idx == nil {
		return nil
	}
	return idx[claimType]
}

// Covariates lets an index be passed directly as a CovariateSource.
func (idx CovariateIndex) Covariates() CovariateIndex {
	return idx
}

// CovariateSource exposes a read-only covariate index owned elsewhere.
type CovariateSource interface {
	Covariates() CovariateIndex
}

// ConsistencyResult is the outcome of checking one claim.
// IsConsistent is always len(Conflicts) == 0.
type ConsistencyResult struct {
	IsConsistent bool              `json:"is_consistent"`
	Conflicts    []StoredCovariate `json:"conflicts"`
}
