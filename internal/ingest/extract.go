package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
)

// Extractor converts document bytes into raw text.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
}

// Strategy selects the extraction path for a document.
type Strategy string

const (
	// StrategyText is the fast, structure-aware path. It yields empty or
	// garbled text on scanned PDFs.
	StrategyText Strategy = "text"
	// StrategyOCR routes the document through the vision model. Slow and
	// one model call per document, but it handles scanned PDFs.
	StrategyOCR Strategy = "ocr"
)

// TextExtractor extracts text directly, dispatching on file extension:
// PDFs through the pdf parser, markdown through a goldmark AST walk, and
// anything else as plain UTF-8.
type TextExtractor struct {
	parser goldmark.Markdown
}

// NewTextExtractor creates a new direct text extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{
		parser: goldmark.New(),
	}
}

// Extract converts document bytes to raw text.
func (e *TextExtractor) Extract(_ context.Context, name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return extractPDFText(data)
	case ".md", ".markdown":
		return e.extractMarkdownText(data)
	default:
		return string(data), nil
	}
}

// extractPDFText pulls the embedded text layer out of a PDF. Scanned PDFs
// have no text layer, so this returns little or nothing for them; the
// caller's minimum-length check treats that as an extraction failure.
func extractPDFText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed PDF: %v", service.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrExtraction, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrExtraction, err)
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrExtraction, err)
	}
	return string(raw), nil
}

// extractMarkdownText walks the markdown AST and emits the text content
// with block boundaries preserved as blank lines, so the chunker sees the
// document's paragraph structure instead of raw markup.
func (e *TextExtractor) extractMarkdownText(data []byte) (string, error) {
	doc := e.parser.Parser().Parse(gmtext.NewReader(data))

	var builder strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if textNode, ok := n.(*ast.Text); ok {
				builder.Write(textNode.Segment.Value(data))
				if textNode.SoftLineBreak() || textNode.HardLineBreak() {
					builder.WriteString("\n")
				}
			}
			return ast.WalkContinue, nil
		}

		switch n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.Blockquote, *ast.CodeBlock, *ast.FencedCodeBlock:
			builder.WriteString("\n\n")
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String()), nil
}

// VisionClient is the OCR boundary implemented by the completion client.
type VisionClient interface {
	ExtractDocumentText(ctx context.Context, data []byte) (string, error)
}

// VisionExtractor extracts text by sending the whole document to the
// vision model.
type VisionExtractor struct {
	client VisionClient
}

// NewVisionExtractor creates a new OCR-backed extractor.
func NewVisionExtractor(client VisionClient) *VisionExtractor {
	return &VisionExtractor{client: client}
}

// Extract converts document bytes to raw text via the vision model.
func (e *VisionExtractor) Extract(ctx context.Context, _ string, data []byte) (string, error) {
	return e.client.ExtractDocumentText(ctx, data)
}
