package goldmark

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/gomdmark/pkg/mdast"
)

// AttrSourcePos is the attribute holding a block's "L:C-L:C" position.
const AttrSourcePos = "data-sourcepos"

// sourcePosTransformer stamps every block node with the source position
// of its content. Leaf blocks use their line segments; container blocks
// (lists, list items, quotes, tables) cover their children.
type sourcePosTransformer struct{}

func (t *sourcePosTransformer) Transform(node *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	doc := mdast.NewDocument("", string(source))

	ranges := make(map[ast.Node]mdast.SourceRange)

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}

		r, ok := leafRange(n, source)
		if !ok {
			r, ok = childrenRange(n, ranges)
		}
		if !ok {
			return ast.WalkContinue, nil
		}

		ranges[n] = r
		n.SetAttributeString(AttrSourcePos, []byte(doc.Position(r).String()))
		return ast.WalkContinue, nil
	})
}

// leafRange spans a block's line segments, minus the trailing line ending.
func leafRange(n ast.Node, source []byte) (mdast.SourceRange, bool) {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return mdast.SourceRange{}, false
	}

	start := lines.At(0).Start
	end := lines.At(lines.Len() - 1).Stop
	for end > start && (source[end-1] == '\n' || source[end-1] == '\r') {
		end--
	}
	if end <= start {
		return mdast.SourceRange{}, false
	}

	return mdast.SourceRange{StartOffset: start, EndOffset: end}, true
}

func childrenRange(n ast.Node, ranges map[ast.Node]mdast.SourceRange) (mdast.SourceRange, bool) {
	var (
		out   mdast.SourceRange
		found bool
	)
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		r, ok := ranges[child]
		if !ok {
			continue
		}
		if !found {
			out, found = r, true
			continue
		}
		out = out.Union(r)
	}
	return out, found
}
