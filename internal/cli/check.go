package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"github.com/Harshitk-cp/claimcheck/internal/service"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrConflictsFound is returned by the check command when the claim is
// inconsistent, so main can exit non-zero.
var ErrConflictsFound = errors.New("claim conflicts with stored covariates")

// CheckCmd returns the check command.
func CheckCmd() *cobra.Command {
	var (
		indexPath string
		claim     domain.Claim
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a claim against a covariate index file",
		Long: `Check a newly extracted claim against the stored covariates of the same type.

The index file maps claim type to a list of covariates:

  claim:
    - id: "1"
      subject_id: A
      attributes: {object_id: B, status: "TRUE"}

Exits with status 2 when the claim contradicts a stored covariate.`,
		Example: `  claimcheck check --index covariates.yaml --subject A --object B --type claim --status FALSE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := LoadIndexFile(indexPath)
			if err != nil {
				return err
			}

			res, err := service.CheckSelfConsistency(&claim, idx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				printResult(out, &claim, res)
			}

			if !res.IsConsistent {
				return ErrConflictsFound
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&indexPath, "index", "i", "", "covariate index file (.yaml, .yml or .json)")
	cmd.Flags().StringVar(&claim.SubjectID, "subject", "", "subject entity id")
	cmd.Flags().StringVar(&claim.ObjectID, "object", "", "object entity id")
	cmd.Flags().StringVar(&claim.Type, "type", "", "claim type (empty selects untyped claims)")
	cmd.Flags().StringVar(&claim.Status, "status", "", "claim status (TRUE, FALSE, or other)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("object")

	return cmd
}

func printResult(w io.Writer, claim *domain.Claim, res *domain.ConsistencyResult) {
	label := claim.Type
	if label == "" {
		label = "(untyped)"
	}

	if res.IsConsistent {
		fmt.Fprintf(w, "%s %s -> %s [%s] %s\n",
			color.New(color.FgGreen, color.Bold).Sprint("CONSISTENT"),
			claim.SubjectID, claim.ObjectID, label, statusLabel(claim.ClaimStatus()))
		return
	}

	fmt.Fprintf(w, "%s %s -> %s [%s] %s: %d conflict(s)\n",
		color.New(color.FgRed, color.Bold).Sprint("CONFLICT"),
		claim.SubjectID, claim.ObjectID, label, statusLabel(claim.ClaimStatus()), len(res.Conflicts))
	for _, c := range res.Conflicts {
		fmt.Fprintf(w, "  - %s stored %s\n",
			color.New(color.FgCyan).Sprint(c.ID), statusLabel(c.ClaimStatus()))
	}
}

func statusLabel(s domain.ClaimStatus) string {
	if s == domain.StatusUnknown {
		return "UNKNOWN"
	}
	return string(s)
}
