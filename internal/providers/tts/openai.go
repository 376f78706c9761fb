package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/providers/httpc"
	"github.com/yoockh/halte-concierge/internal/utils"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	providerOpenAI       = "openai-speech"

	maxAudioBytes = 16 << 20
)

// OpenAI voice options
const (
	VoiceAlloy = "alloy" // neutral
	VoiceEcho  = "echo"  // male
	VoiceOnyx  = "onyx"  // deep male
	VoiceNova  = "nova"  // female
)

// OpenAI model options
const (
	ModelTTS1   = "tts-1"
	ModelTTS1HD = "tts-1-hd"
)

type OpenAI struct {
	apiKey  string
	model   string
	voice   string
	baseURL string
	client  *http.Client

	maxBytes int64
}

func NewOpenAI(apiKey, model, voice, baseURL string, client *http.Client) *OpenAI {
	if model == "" {
		model = ModelTTS1
	}
	if voice == "" {
		voice = VoiceOnyx
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if client == nil {
		client = httpc.NewClient()
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		voice:   voice,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,

		maxBytes: maxAudioBytes,
	}
}

func (o *OpenAI) ContentType() string { return models.ContentTypeMPEG }

func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

// Synthesize makes exactly one request; there is no retry.
func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	const op = "tts.OpenAI.Synthesize"

	if strings.TrimSpace(text) == "" {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "empty text", nil)
	}

	body, err := json.Marshal(map[string]any{
		"model":           o.model,
		"voice":           o.voice,
		"input":           text,
		"response_format": "mp3",
	})
	if err != nil {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "marshal payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "provider error", httpc.ReadAPIError(providerOpenAI, resp))
	}

	// One byte past the cap tells a truncated mp3 apart from one that fits.
	audio, err := io.ReadAll(io.LimitReader(resp.Body, o.maxBytes+1))
	if err != nil {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "read response", err)
	}
	if int64(len(audio)) > o.maxBytes {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "audio too large", utils.ErrAudioTooLarge)
	}
	if len(audio) == 0 {
		return nil, utils.E(utils.CodeSynthesisFailed, op, "empty audio", utils.ErrEmptyAudio)
	}
	return audio, nil
}

// Verify OpenAI implements Provider at compile time.
var _ Provider = (*OpenAI)(nil)
