package service

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// outlineDepth is the deepest heading level that appears in the table of
// contents and receives an anchor in the rendered body.
const outlineDepth = 3

var (
	headingLinePattern = regexp.MustCompile(`(?m)^(#{1,3})\s+(.+)$`)
	languageClass      = regexp.MustCompile(`^language-[a-zA-Z0-9+#-]+$`)
)

// Heading is one table-of-contents entry derived from the document. The
// anchor matches the id of the corresponding heading in the rendered body.
type Heading struct {
	Anchor string `json:"anchor"`
	Text   string `json:"text"`
	Level  int    `json:"level"`
}

// ContentRenderer converts stored Markdown into sanitized display HTML and
// extracts the heading outline. It holds no mutable state and is safe for
// concurrent use.
type ContentRenderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
}

// NewContentRenderer builds the GFM markdown engine and sanitizer policy.
func NewContentRenderer() *ContentRenderer {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(&headingAnchorTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)

	policy := bluemonday.UGCPolicy()
	// Keep the anchors the transformer assigns and the language tag on
	// fenced code blocks; UGC strips both otherwise.
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3")
	policy.AllowAttrs("class").Matching(languageClass).OnElements("code")

	return &ContentRenderer{engine: engine, policy: policy}
}

// Render converts a Markdown document into sanitized HTML. Unrecognized
// constructs degrade to literal text; content never makes Render fail.
func (r *ContentRenderer) Render(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := r.policy.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}

// ExtractOutline scans the document for headings of level 1 to 3 and
// returns them in document order. Identically worded headings yield the
// same anchor; the outline does not disambiguate them.
func (r *ContentRenderer) ExtractOutline(content string) []Heading {
	matches := headingLinePattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	outline := make([]Heading, 0, len(matches))
	for _, match := range matches {
		title := match[2]
		outline = append(outline, Heading{
			Anchor: headingAnchor(title),
			Text:   title,
			Level:  len(match[1]),
		})
	}
	return outline
}

// headingAnchorTransformer assigns id attributes to heading nodes so that
// outline links (#anchor) resolve inside the rendered body.
type headingAnchorTransformer struct{}

func (t *headingAnchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Level > outlineDepth {
			return ast.WalkContinue, nil
		}
		heading.SetAttributeString("id", []byte(headingAnchor(nodeText(heading, reader.Source()))))
		return ast.WalkContinue, nil
	})
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			sb.Write(typed.Segment.Value(source))
		case *ast.String:
			sb.Write(typed.Value)
		default:
			sb.WriteString(nodeText(child, source))
		}
	}
	return sb.String()
}
