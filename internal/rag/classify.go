package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/contextutil"
	"github.com/Seohyeoksu/School-designed-autonomous-time/internal/llm"
)

// classify labels a question as document-seeking or creative via a single
// oracle call. Document mode is the safe default on any ambiguity or
// error: it is the more constrained generation mode.
func (e *ragEngine) classify(ctx context.Context, question string) ResponseType {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := fmt.Sprintf(classifyPromptFmt, question)
	response, err := e.oracle.Complete(ctx, prompt, llm.CompleteParams{Temperature: 0})
	if err != nil {
		logger.WarnContext(ctx, "classification failed, defaulting to document mode", "error", err)
		return ResponseDocument
	}

	label := strings.TrimSpace(strings.ToLower(response))
	logger.DebugContext(ctx, "question classified", "label", label)

	if strings.Contains(label, string(ResponseCreative)) {
		return ResponseCreative
	}
	return ResponseDocument
}
