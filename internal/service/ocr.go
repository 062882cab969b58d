package service

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const transcribePrompt = `Transcribe all of the text in this recipe image exactly as written.
Keep line breaks. Output only the text, with no commentary.`

// VisionCompleter is the chat capability VisionRecognizer needs from LLMClient
type VisionCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
	VisionModel() string
}

// VisionRecognizer reads the text of a recipe image with a vision-capable model
type VisionRecognizer struct {
	llm    VisionCompleter
	logger *zap.Logger
}

// NewVisionRecognizer creates a new VisionRecognizer instance
func NewVisionRecognizer(llm VisionCompleter, logger *zap.Logger) *VisionRecognizer {
	return &VisionRecognizer{llm: llm, logger: logger}
}

// Recognize implements TextRecognizer
func (r *VisionRecognizer) Recognize(ctx context.Context, image []byte, contentType string) (string, error) {
	if len(image) == 0 {
		return "", extractionFailure(ExtractionIncomplete, errors.New("empty image"))
	}
	model := r.llm.VisionModel()
	if model == "" {
		return "", extractionFailure(ExtractionUnavailable, ErrVisionNotConfigured)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(image)
	}

	dataURL := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image)
	text, err := r.llm.Complete(ctx, ChatRequest{
		Model: model,
		Messages: []Message{{
			Role: "user",
			Content: []ContentPart{
				{Type: "text", Text: transcribePrompt},
				{Type: "image_url", ImageURL: &ImageURL{URL: dataURL}},
			},
		}},
	})
	if err != nil {
		r.logger.Error("image transcription failed", zap.Error(err))
		return "", extractionFailure(ExtractionUnavailable, err)
	}

	text = stripCodeFence(text)
	r.logger.Debug("image transcription", zap.Int("chars", len(text)))
	return strings.TrimSpace(text), nil
}
