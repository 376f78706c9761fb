package llm

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
	DefaultOpenAIModel   = "gpt-4.1-mini"
	providerOpenAI       = "openai-responses"

	maxResponseBytes = 1 << 20
)

// OpenAI calls the Responses endpoint.
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

type responsesRequest struct {
	Model string           `json:"model"`
	Input []models.Message `json:"input"`
}

// responsesBody mirrors only the path we read. Every level is a slice or a
// pointer so a missing or reshaped node decodes to empty instead of panicking.
type responsesBody struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string  `json:"type"`
			Text *string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

func (o *OpenAI) Generate(ctx context.Context, turn models.ConversationTurn) (string, error) {
	const op = "llm.OpenAI.Generate"

	payload, err := json.Marshal(responsesRequest{Model: o.model, Input: turn.Messages()})
	if err != nil {
		return "", utils.E(utils.CodeGenerationFailed, op, "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", utils.E(utils.CodeGenerationFailed, op, "create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", utils.E(utils.CodeGenerationFailed, op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", utils.E(utils.CodeGenerationFailed, op, "provider error", httpc.ReadAPIError(providerOpenAI, resp))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", utils.E(utils.CodeGenerationFailed, op, "read response", err)
	}

	text, ok := ExtractReply(raw)
	if !ok {
		return "", utils.E(utils.CodeGenerationFailed, op, "no text at output[0].content[0]", utils.ErrMalformedReply)
	}
	return text, nil
}

// ExtractReply reads output[0].content[0].text from a Responses payload.
// ok is false when any step of that path is absent or the text is blank.
func ExtractReply(raw []byte) (string, bool) {
	var body responsesBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false
	}
	if len(body.Output) == 0 || len(body.Output[0].Content) == 0 {
		return "", false
	}
	text := body.Output[0].Content[0].Text
	if text == nil || strings.TrimSpace(*text) == "" {
		return "", false
	}
	return strings.TrimSpace(*text), true
}

var _ Provider = (*OpenAI)(nil)
