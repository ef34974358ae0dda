// Package newick reads and writes trees in Newick format.
//
// The Newick format is a parenthesized text notation for trees with named
// leaves and numeric branch lengths, terminated by a semicolon:
//
//	(((A:0.1,B:0.2):0.1,(C:0.1,D:0.1):0.2):0.3,E:0.5):0.0;
//
// The grammar, informally:
//
//	tree    := subtree ';'
//	subtree := '(' subtree (',' subtree)* ')' meta? | meta
//	meta    := name? (':' number)?
//
// [Parse] converts text into a [tree.Tree]; [String] converts a tree back to
// canonical text with five-decimal fixed-point distances. Parsing the output
// of String yields a tree that compares equal to the original, and
// serializing it again reproduces the text byte for byte.
//
// All parse failures are reported as a single malformed-tree error kind
// (errors.ErrCodeMalformedTree) carrying a human-readable reason.
package newick

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cladeviz/clade/pkg/errors"
	"github.com/cladeviz/clade/pkg/tree"
)

// Parse converts Newick text into a tree. Spaces are stripped and input
// after the first ';' is ignored. The resulting tree must have at least two
// leaves; degenerate single-branch input is rejected as malformed.
func Parse(input string) (*tree.Tree, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, input)

	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return nil, errors.New(errors.ErrCodeMalformedTree, "empty input")
	}

	root, err := parseSubtree(s)
	if err != nil {
		return nil, err
	}

	t := tree.New(root)
	t.Validate()
	if t.LeafCount() < 2 {
		return nil, errors.New(errors.ErrCodeMalformedTree, "tree has fewer than two leaves")
	}
	return t, nil
}

// Read parses a single Newick tree from r. Read failures are surfaced as a
// distinct I/O error kind; only the content itself produces malformed-tree
// errors.
func Read(r io.Reader) (*tree.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read newick input")
	}
	return Parse(string(data))
}

// parseSubtree parses either a parenthesized descendant list with trailing
// metadata or a bare leaf metadata segment.
func parseSubtree(s string) (*tree.Node, error) {
	if !strings.HasPrefix(s, "(") {
		return parseMeta(s)
	}

	end, err := matchParen(s)
	if err != nil {
		return nil, err
	}

	n, err := parseMeta(s[end+1:])
	if err != nil {
		return nil, err
	}

	segments, err := splitTopLevel(s[1:end])
	if err != nil {
		return nil, err
	}
	for _, seg := range segments {
		child, err := parseSubtree(seg)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// matchParen returns the index of the ')' matching the '(' at position 0,
// scanning forward with a depth counter.
func matchParen(s string) (int, error) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, errors.New(errors.ErrCodeMalformedTree, "unmatched parenthesis in %q", s)
}

// splitTopLevel splits s on commas at parenthesis depth zero. Commas nested
// inside a child's own subtree are not split points.
func splitTopLevel(s string) ([]string, error) {
	var segments []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, errors.New(errors.ErrCodeMalformedTree, "unmatched parenthesis in %q", s)
			}
		case ',':
			if depth == 0 {
				segments = append(segments, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, errors.New(errors.ErrCodeMalformedTree, "unmatched parenthesis in %q", s)
	}
	return append(segments, s[start:]), nil
}

// parseMeta parses a metadata segment into a node. The segment is split once
// on the first colon: the part before is the name (empty allowed), the part
// after the branch length (empty defaults to 0). Structural characters are
// never valid here; a stray ')' after a balanced prefix would otherwise be
// absorbed into the name.
func parseMeta(s string) (*tree.Node, error) {
	if strings.ContainsAny(s, "()") {
		return nil, errors.New(errors.ErrCodeMalformedTree, "unmatched parenthesis in %q", s)
	}
	if strings.Contains(s, ",") {
		return nil, errors.New(errors.ErrCodeMalformedTree, "unexpected ',' in %q", s)
	}
	name, distStr, hasDist := strings.Cut(s, ":")
	n := &tree.Node{Name: name}
	if !hasDist || distStr == "" {
		return n, nil
	}
	dist, err := strconv.ParseFloat(distStr, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeMalformedTree, "invalid branch length %q", distStr)
	}
	if dist < 0 {
		return nil, errors.New(errors.ErrCodeMalformedTree, "negative branch length %q", distStr)
	}
	n.Dist = dist
	return n, nil
}

// String serializes a tree to canonical Newick text: post-order
// `(child,child)name:distance` with five-decimal fixed-point distances,
// terminated by ';'.
func String(t *tree.Tree) string {
	if t == nil || t.Root == nil {
		return ";"
	}
	var b strings.Builder
	writeNode(&b, t.Root)
	b.WriteByte(';')
	return b.String()
}

// Write serializes t to w in canonical Newick text.
func Write(w io.Writer, t *tree.Tree) error {
	if _, err := io.WriteString(w, String(t)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write newick output")
	}
	return nil
}

func writeNode(b *strings.Builder, n *tree.Node) {
	if !n.IsLeaf() {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, c)
		}
		b.WriteByte(')')
	}
	b.WriteString(n.Name)
	fmt.Fprintf(b, ":%.5f", n.Dist)
}
