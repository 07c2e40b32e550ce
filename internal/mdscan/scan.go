// Package mdscan provides a read-only CommonMark scan of a markdown
// document's fenced code blocks, used to inspect a document before
// extracting it.
package mdscan

import (
	"bytes"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Block is one fenced code block found in a document.
type Block struct {
	Lang      string
	Meta      Meta
	Code      []byte
	StartLine int
	EndLine   int
}

// Document is the scan result for one markdown source.
type Document struct {
	Title  string
	Blocks []*Block
}

var nl = []byte("\n")

// Scan parses source and collects every fenced code block without modifying
// anything. A YAML or TOML frontmatter section, when present, contributes
// the document title. Line numbers refer to the original source.
func Scan(source []byte) (*Document, error) {
	doc := &Document{}

	var matter struct {
		Title string `yaml:"title" toml:"title"`
	}

	rest, err := frontmatter.Parse(bytes.NewReader(source), &matter)
	if err != nil {
		// Malformed frontmatter: scan the raw document instead.
		rest = source
	}

	doc.Title = matter.Title

	// Lines stripped along with the frontmatter shift all reported numbers.
	offset := bytes.Count(source, nl) - bytes.Count(rest, nl)

	root := goldmark.DefaultParser().Parse(text.NewReader(rest)).OwnerDocument()

	walkErr := ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering || node.Kind() != ast.KindFencedCodeBlock {
			return ast.WalkContinue, nil
		}

		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		block, berr := newBlock(fcb, rest, offset)
		if berr != nil {
			return ast.WalkStop, berr
		}

		doc.Blocks = append(doc.Blocks, block)

		return ast.WalkContinue, nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return doc, nil
}

func newBlock(fcb *ast.FencedCodeBlock, source []byte, offset int) (*Block, error) {
	lang, meta, err := blockInfo(fcb, source)
	if err != nil {
		return nil, err
	}

	block := &Block{Lang: lang, Meta: meta, Code: blockCode(fcb, source)}

	block.StartLine, block.EndLine = blockLines(fcb, source)
	block.StartLine += offset
	block.EndLine += offset

	return block, nil
}

func blockCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}

	return buf.Bytes()
}

func blockLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var start, end int

	lines := fcb.Lines()

	if fcb.Info != nil {
		start = lineAt(source, fcb.Info.Segment.Start)
	} else if lines.Len() > 0 {
		start = lineAt(source, lines.At(0).Start) - 1
	}

	if lines.Len() > 0 {
		end = lineAt(source, lines.At(lines.Len()-1).Stop)
	} else if start > 0 {
		end = start + 1
	}

	return start, end
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return 1 + bytes.Count(source[:offset], nl)
}
