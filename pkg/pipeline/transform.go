package pipeline

import (
	"github.com/cladeviz/clade/pkg/errors"
	"github.com/cladeviz/clade/pkg/tree"
)

// Transform applies the topology options to t in place, in a fixed order:
// reroot, then prune, then collapse, then binary normalization. The order
// matters; pruning the reroot target after rerooting keeps both options
// meaningful in one invocation.
func Transform(t *tree.Tree, opts Options) error {
	if opts.Reroot != "" {
		target := t.Find(opts.Reroot)
		if target == nil {
			return errors.New(errors.ErrCodeNotFound, "reroot target %q not in tree", opts.Reroot)
		}
		t.Reroot(target)
	}

	for _, name := range opts.Prune {
		if t.Find(name) == nil {
			return errors.New(errors.ErrCodeNotFound, "prune target %q not in tree", name)
		}
		t.RemoveLeaf(name)
	}

	for _, name := range opts.Collapse {
		n := t.Find(name)
		if n == nil {
			return errors.New(errors.ErrCodeNotFound, "collapse target %q not in tree", name)
		}
		n.Collapsed = true
	}

	if opts.Binary {
		t.MakeBinary()
	}
	return nil
}
