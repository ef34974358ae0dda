package cli

import (
	"github.com/spf13/cobra"

	"github.com/cladeviz/clade/pkg/errors"
	"github.com/cladeviz/clade/pkg/tree"
)

// newCompareCmd creates the compare command, which checks two trees for
// structural and metric equality.
func newCompareCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "compare [file] [file]",
		Short: "Compare two trees for equality",
		Long: `Compare two Newick trees structurally and metrically: same shape, same
names, and branch lengths equal within a small epsilon. Rerooted versions
of the same tree compare equal. Exits non-zero when the trees differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readTree(args[0])
			if err != nil {
				return err
			}
			b, err := readTree(args[1])
			if err != nil {
				return err
			}

			if tree.Compare(a, b) == 0 {
				if !quiet {
					printSuccess("Trees are equal")
				}
				return nil
			}
			if !quiet {
				printError("Trees differ")
			}
			cmd.SilenceErrors = true
			return errors.New(errors.ErrCodeInvalidInput, "trees differ")
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress output, report via exit code only")
	return cmd
}
