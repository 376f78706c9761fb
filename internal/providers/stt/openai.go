package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/providers/httpc"
	"github.com/yoockh/halte-concierge/internal/utils"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "whisper-1"
	providerOpenAI       = "openai-transcription"
)

type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAI(apiKey, model, baseURL string, client *http.Client) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
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
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

func (o *OpenAI) Transcribe(ctx context.Context, audio models.AudioPayload) (string, error) {
	const op = "stt.OpenAI.Transcribe"

	if audio.Empty() {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "empty audio", nil)
	}

	body, contentType, err := o.encodeForm(audio)
	if err != nil {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "encode multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "provider error", httpc.ReadAPIError(providerOpenAI, resp))
	}

	var decoded struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "decode response", err)
	}
	if decoded.Text == nil {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "response has no text field", utils.ErrMalformedReply)
	}

	text := strings.TrimSpace(*decoded.Text)
	if text == "" {
		return "", utils.E(utils.CodeTranscriptionFailed, op, "blank transcript", utils.ErrEmptyTranscript)
	}
	return text, nil
}

func (o *OpenAI) encodeForm(audio models.AudioPayload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("model", o.model); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("response_format", "json"); err != nil {
		return nil, "", err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(audio.Name())+`"`)
	ct := audio.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

var _ Provider = (*OpenAI)(nil)
