package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"gopkg.in/yaml.v3"
)

// indexEntry mirrors domain.StoredCovariate with untyped attribute values, so
// a file may carry booleans or numbers where the database carries JSONB.
type indexEntry struct {
	ID            string         `json:"id" yaml:"id"`
	ShortID       string         `json:"short_id" yaml:"short_id"`
	SubjectID     string         `json:"subject_id" yaml:"subject_id"`
	SubjectType   string         `json:"subject_type" yaml:"subject_type"`
	CovariateType string         `json:"covariate_type" yaml:"covariate_type"`
	TextUnitIDs   []string       `json:"text_unit_ids" yaml:"text_unit_ids"`
	Attributes    map[string]any `json:"attributes" yaml:"attributes"`
}

// LoadIndexFile reads a covariate index from a .json, .yaml or .yml file.
// The document maps claim type to a list of stored covariates. Attribute
// values are flattened the same way the Postgres store flattens JSONB.
func LoadIndexFile(path string) (domain.CovariateIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var raw map[string][]indexEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&raw)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported index format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}

	if raw == nil {
		return nil, nil
	}
	idx := make(domain.CovariateIndex, len(raw))
	for claimType, entries := range raw {
		bucket := make([]domain.StoredCovariate, len(entries))
		for i, e := range entries {
			bucket[i] = domain.StoredCovariate{
				ID:            e.ID,
				ShortID:       e.ShortID,
				SubjectID:     e.SubjectID,
				SubjectType:   e.SubjectType,
				CovariateType: e.CovariateType,
				TextUnitIDs:   e.TextUnitIDs,
				Attributes:    domain.FlattenAttributes(e.Attributes),
			}
		}
		idx[claimType] = bucket
	}
	return idx, nil
}
