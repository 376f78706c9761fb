package stt

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/utils"
)

// GoogleSpeech is the alternative transcriber, selected with STT_PROVIDER=google.
// Browser recordings arrive as webm/opus at 48 kHz.
type GoogleSpeech struct {
	c *speech.Client

	Encoding     speechpb.RecognitionConfig_AudioEncoding
	SampleRateHz int32
	Language     string
	Alternatives []string
}

func NewGoogleSpeech(ctx context.Context, opts ...option.ClientOption) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{
		c:            c,
		Encoding:     speechpb.RecognitionConfig_WEBM_OPUS,
		SampleRateHz: 48000,
		Language:     "fr-FR",
		// guests switch language; the persona answers in kind
		Alternatives: []string{"en-US", "es-ES", "de-DE"},
	}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

func (g *GoogleSpeech) Transcribe(ctx context.Context, audio models.AudioPayload) (string, error) {
	const op = "stt.GoogleSpeech.Transcribe"

	if audio.Empty() {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "empty audio", nil)
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   g.Encoding,
			SampleRateHertz:            g.SampleRateHz,
			LanguageCode:               g.Language,
			AlternativeLanguageCodes:   g.Alternatives,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Data},
		},
	})
	if err != nil {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "recognize failed", err)
	}

	// Results are consecutive segments; keep the best alternative of each.
	var parts []string
	for _, r := range resp.GetResults() {
		var best string
		var bestConf float32 = -1
		for _, alt := range r.GetAlternatives() {
			if alt.GetTranscript() != "" && alt.GetConfidence() > bestConf {
				best = alt.GetTranscript()
				bestConf = alt.GetConfidence()
			}
		}
		if s := strings.TrimSpace(best); s != "" {
			parts = append(parts, s)
		}
	}

	text := strings.Join(parts, " ")
	if text == "" {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "blank transcript", utils.ErrEmptyTranscript)
	}
	return text, nil
}

var _ Provider = (*GoogleSpeech)(nil)
