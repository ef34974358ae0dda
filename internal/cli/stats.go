package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cladeviz/clade/pkg/cache"
	"github.com/cladeviz/clade/pkg/newick"
	"github.com/cladeviz/clade/pkg/tree"
)

// newStatsCmd creates the stats command, which parses a tree and prints
// structural statistics.
func newStatsCmd() *cobra.Command {
	var showNewick bool

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Print statistics for a Newick tree",
		Long:  `Parse a Newick file (or stdin with "-") and print leaf count, node count, depth, and maximum root-to-leaf distance. The tree is validated and normalized on the way in.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)

			t, err := readTree(args[0])
			if err != nil {
				return err
			}

			nodes, leaves, polytomies, depth := 0, 0, 0, 0
			t.Root.Walk(func(n *tree.Node) {
				nodes++
				if n.IsLeaf() {
					leaves++
					if d := n.Depth(); d > depth {
						depth = d
					}
				} else if len(n.Children) > 2 {
					polytomies++
				}
			})
			canonical := newick.String(t)
			p.done(fmt.Sprintf("Parsed %d leaves", leaves))

			printKeyValue("Leaves", fmt.Sprintf("%d", leaves))
			printKeyValue("Nodes", fmt.Sprintf("%d", nodes))
			printKeyValue("Depth", fmt.Sprintf("%d", depth))
			printKeyValue("Max distance", fmt.Sprintf("%.5f", t.Root.MaxLeafDist()))
			printKeyValue("Polytomies", fmt.Sprintf("%d", polytomies))
			printKeyValue("Hash", cache.Hash([]byte(canonical))[:12])
			if polytomies > 0 {
				printWarning("Tree is not binary; run 'clade binary' to normalize")
			}
			if showNewick {
				fmt.Println(canonical)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showNewick, "newick", false, "also print the canonical Newick text")
	return cmd
}
