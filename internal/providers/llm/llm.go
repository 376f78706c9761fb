package llm

import (
	"context"

	"github.com/yoockh/halte-concierge/internal/models"
)

// Provider generates the concierge's reply for a message sequence. It keeps
// no state between calls: the same turn always produces the same request.
type Provider interface {
	Generate(ctx context.Context, turn models.ConversationTurn) (reply string, err error)
	Close() error
}
