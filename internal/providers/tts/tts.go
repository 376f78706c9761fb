package tts

import "context"

// Provider turns the final reply into compressed speech. A nil error always
// comes with non-empty audio.
type Provider interface {
	Synthesize(ctx context.Context, text string) (audio []byte, err error)
	// ContentType is the MIME type of the audio Synthesize returns.
	ContentType() string
	Close() error
}
