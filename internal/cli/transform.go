package cli

import (
	"github.com/spf13/cobra"

	"github.com/cladeviz/clade/pkg/errors"
	"github.com/cladeviz/clade/pkg/newick"
)

// newRerootCmd creates the reroot command, which repositions the root next
// to a named leaf and emits canonical Newick.
func newRerootCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "reroot [file] [leaf]",
		Short: "Reroot a tree on a named leaf",
		Long: `Reroot the tree so that the named leaf becomes the outgroup, splitting
its branch evenly on both sides of the new root. Total path length between
any two leaves is preserved. The result is written as canonical Newick.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTree(args[0])
			if err != nil {
				return err
			}
			target := t.Find(args[1])
			if target == nil {
				return errors.New(errors.ErrCodeNotFound, "leaf %q not in tree", args[1])
			}
			t.Reroot(target)
			return writeOutput(output, []byte(newick.String(t)+"\n"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// newPruneCmd creates the prune command, which removes named leaves and
// emits canonical Newick.
func newPruneCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "prune [file] [leaf]...",
		Short: "Remove leaves from a tree",
		Long: `Remove the named leaves one by one. Each removal splices out the leaf's
parent and adds its branch length to the surviving sibling, so distances
between remaining leaves are unchanged. Pruning assumes a binary tree; run
"clade binary" first if the tree has polytomies.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTree(args[0])
			if err != nil {
				return err
			}
			for _, name := range args[1:] {
				if t.Find(name) == nil {
					return errors.New(errors.ErrCodeNotFound, "leaf %q not in tree", name)
				}
				t.RemoveLeaf(name)
			}
			return writeOutput(output, []byte(newick.String(t)+"\n"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// newBinaryCmd creates the binary command, which splits polytomies into
// zero-length intermediate nodes.
func newBinaryCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "binary [file]",
		Short: "Normalize a tree to binary form",
		Long: `Split every node with more than two children by moving the extra
children under a new zero-length intermediate node, repeating until every
internal node is binary. Leaf distances are unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTree(args[0])
			if err != nil {
				return err
			}
			t.MakeBinary()
			return writeOutput(output, []byte(newick.String(t)+"\n"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
