package llm

import (
	"context"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/utils"
)

// VertexGemini is the alternative generator, selected with LLM_PROVIDER=vertex.
type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string, opts ...option.ClientOption) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, modelName: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

// Generate maps system entries to the system instruction (persona first, then
// the search fact) and user entries to prompt parts. A fresh model handle is
// built per call because SystemInstruction is a field on the handle.
func (v *VertexGemini) Generate(ctx context.Context, turn models.ConversationTurn) (string, error) {
	const op = "llm.VertexGemini.Generate"

	var system []vertexgenai.Part
	var prompt []vertexgenai.Part
	for _, m := range turn.Messages() {
		switch m.Role {
		case models.RoleSystem:
			system = append(system, vertexgenai.Text(m.Content))
		default:
			prompt = append(prompt, vertexgenai.Text(m.Content))
		}
	}
	if len(prompt) == 0 {
		return "", utils.E(utils.CodeGenerationFailed, op, "turn has no user entry", nil)
	}

	model := v.client.GenerativeModel(v.modelName)
	if len(system) > 0 {
		model.SystemInstruction = &vertexgenai.Content{Parts: system}
	}

	resp, err := model.GenerateContent(ctx, prompt...)
	if err != nil {
		return "", utils.E(utils.CodeGenerationFailed, op, "generate failed", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", utils.E(utils.CodeGenerationFailed, op, "no candidate content", utils.ErrMalformedReply)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(vertexgenai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", utils.E(utils.CodeGenerationFailed, op, "blank candidate text", utils.ErrMalformedReply)
	}
	return text, nil
}

var _ Provider = (*VertexGemini)(nil)
