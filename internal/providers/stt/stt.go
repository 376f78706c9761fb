package stt

import (
	"context"

	"github.com/yoockh/halte-concierge/internal/models"
)

// Provider turns a guest recording into text. Implementations return a
// utils.CodeTranscriptionFailed error when the remote call fails or yields no
// usable text; a nil error always comes with non-blank text.
type Provider interface {
	Transcribe(ctx context.Context, audio models.AudioPayload) (text string, err error)
	Close() error
}
