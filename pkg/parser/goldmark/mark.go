package goldmark

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMark is the kind of MarkNode AST nodes.
var KindMark = ast.NewNodeKind("Mark")

const (
	markParserPriority   = 500
	markRendererPriority = 500
)

// MarkNode is text wrapped in "==" highlight markers.
type MarkNode struct {
	ast.BaseInline
}

// Kind returns the kind of this node.
func (n *MarkNode) Kind() ast.NodeKind {
	return KindMark
}

// Dump dumps the node for debugging.
func (n *MarkNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// NewMark creates a new MarkNode.
func NewMark() *MarkNode {
	return &MarkNode{}
}

type markDelimiterProcessor struct{}

func (p *markDelimiterProcessor) IsDelimiter(b byte) bool {
	return b == '='
}

func (p *markDelimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

//nolint:ireturn // required by parser.DelimiterProcessor
func (p *markDelimiterProcessor) OnMatch(_ int) ast.Node {
	return NewMark()
}

var defaultMarkDelimiterProcessor = &markDelimiterProcessor{}

// markParser scans "==" delimiter runs. Pairing happens when the
// enclosing block's delimiters are processed, so emphasis nests inside
// a mark and a mark may not span blocks.
type markParser struct{}

func (p *markParser) Trigger() []byte {
	return []byte{'='}
}

//nolint:ireturn // required by parser.InlineParser
func (p *markParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()

	node := parser.ScanDelimiter(line, before, 2, defaultMarkDelimiterProcessor)
	if node == nil || node.OriginalLength != 2 || before == '=' {
		return nil
	}

	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

type markHTMLRenderer struct{}

func (r *markHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMark, r.renderMark)
}

func (r *markHTMLRenderer) renderMark(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</mark>")
		return ast.WalkContinue, nil
	}

	if n.Attributes() != nil {
		_, _ = w.WriteString("<mark")
		html.RenderAttributes(w, n, nil)
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("<mark>")
	}
	return ast.WalkContinue, nil
}

type markExtension struct{}

// Mark is the goldmark extension for "==highlight==" syntax.
var Mark goldmark.Extender = &markExtension{}

func (e *markExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&markParser{}, markParserPriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&markHTMLRenderer{}, markRendererPriority),
		),
	)
}
