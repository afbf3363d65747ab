package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/service"
)

// ocrPrompt asks the vision model to transcribe every piece of text in the
// document, dropping page numbers and URLs.
const ocrPrompt = "이 PDF 문서의 모든 텍스트를 추출해주세요. 표, 제목, 본문, 목록 등 모든 내용을 포함해주세요. 페이지 번호나 URL은 제외하고 텍스트만 출력하세요."

// ocrTimeout is longer than the default because a full-document vision
// pass on a large scanned PDF routinely takes minutes.
const ocrTimeout = 5 * time.Minute

// ExtractDocumentText sends document bytes to the vision-capable model and
// returns the transcribed text. This is the slow extraction strategy: one
// model call per document, but it works on scanned PDFs where direct text
// extraction yields nothing.
func (c *Client) ExtractDocumentText(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", service.ErrExtraction)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	prompt := fmt.Sprintf("%s\n\nPDF Data: data:application/pdf;base64,%s", ocrPrompt, encoded)

	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	text, err := c.Complete(ctx, prompt, CompleteParams{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", service.ErrExtraction, err)
	}
	return text, nil
}
