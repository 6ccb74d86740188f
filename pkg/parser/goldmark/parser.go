// Package goldmark renders Markdown into the HTML reading view using the
// goldmark library. Block elements carry data-sourcepos attributes, "==x=="
// renders as <mark> and "[[target|alias]]" renders as an internal link.
package goldmark

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// sourcePosTransformerPriority runs the transformer after the built-in
// ones so the final block tree is stamped.
const sourcePosTransformerPriority = 1000

// Parser renders Markdown sources to the reading view.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a new goldmark-based parser for the given flavor.
// Supported flavors are "commonmark" and "gfm".
// Invalid flavors default to "commonmark".
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse parses content into a goldmark AST. Block nodes carry their
// data-sourcepos attribute.
//
//nolint:ireturn // ast.Node is an external interface type
func (p *Parser) Parse(ctx context.Context, content []byte) (ast.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	root := p.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}
	return root, nil
}

// Render converts content to the HTML reading view.
func (p *Parser) Render(ctx context.Context, content []byte) (string, error) {
	root, err := p.Parse(ctx, content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := p.md.Renderer().Render(&buf, content, root); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}

// flavorOrDefault returns the flavor if valid, otherwise defaults to CommonMark.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorCommonMark
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	extensions := []goldmark.Extender{Mark, WikiLinks}

	// Configure extensions based on flavor.
	switch flavor {
	case FlavorGFM:
		extensions = append(extensions, extension.GFM)
	case FlavorCommonMark:
		// No extra extensions for pure CommonMark.
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&sourcePosTransformer{}, sourcePosTransformerPriority),
			),
		),
	)
}
