package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindWikiLink is the kind of WikiLinkNode AST nodes.
var KindWikiLink = ast.NewNodeKind("WikiLink")

const (
	// Runs ahead of the standard link parser at 200.
	wikiLinkParserPriority   = 199
	wikiLinkRendererPriority = 500
)

// wikiLinkClass marks rendered wikilinks in the reading view.
const wikiLinkClass = "internal-link"

var (
	wikiOpen  = []byte("[[")
	wikiClose = []byte("]]")
)

// WikiLinkNode is a "[[target]]" or "[[target|alias]]" link. Its children
// are the displayed text: the alias when present, else the target.
type WikiLinkNode struct {
	ast.BaseInline

	Target []byte
}

// Kind returns the kind of this node.
func (n *WikiLinkNode) Kind() ast.NodeKind {
	return KindWikiLink
}

// Dump dumps the node for debugging.
func (n *WikiLinkNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Target": string(n.Target)}, nil)
}

type wikiLinkParser struct{}

func (p *wikiLinkParser) Trigger() []byte {
	return []byte{'['}
}

//nolint:ireturn // required by parser.InlineParser
func (p *wikiLinkParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, segment := block.PeekLine()
	if !bytes.HasPrefix(line, wikiOpen) {
		return nil
	}

	end := bytes.Index(line[len(wikiOpen):], wikiClose)
	if end <= 0 {
		return nil
	}
	inner := line[len(wikiOpen) : len(wikiOpen)+end]
	if bytes.ContainsAny(inner, "[]\n") {
		return nil
	}

	target := inner
	displayStart, displayLen := len(wikiOpen), len(inner)
	if pipe := bytes.IndexByte(inner, '|'); pipe >= 0 {
		target = inner[:pipe]
		if alias := inner[pipe+1:]; len(alias) > 0 {
			displayStart, displayLen = len(wikiOpen)+pipe+1, len(alias)
		} else {
			displayLen = pipe
		}
	}
	if len(bytes.TrimSpace(target)) == 0 {
		return nil
	}

	node := &WikiLinkNode{Target: bytes.Clone(bytes.TrimSpace(target))}
	start := segment.Start + displayStart
	node.AppendChild(node, ast.NewTextSegment(text.NewSegment(start, start+displayLen)))

	block.Advance(len(wikiOpen) + end + len(wikiClose))
	return node
}

type wikiLinkHTMLRenderer struct{}

func (r *wikiLinkHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindWikiLink, r.renderWikiLink)
}

func (r *wikiLinkHTMLRenderer) renderWikiLink(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}

	link, ok := n.(*WikiLinkNode)
	if !ok {
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(link.Target, true)))
	_, _ = w.WriteString(`" class="` + wikiLinkClass + `">`)
	return ast.WalkContinue, nil
}

type wikiLinkExtension struct{}

// WikiLinks is the goldmark extension for "[[wikilink]]" syntax.
var WikiLinks goldmark.Extender = &wikiLinkExtension{}

func (e *wikiLinkExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(&wikiLinkParser{}, wikiLinkParserPriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&wikiLinkHTMLRenderer{}, wikiLinkRendererPriority),
		),
	)
}
