package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/persona"
	"github.com/yoockh/halte-concierge/internal/providers/llm"
	"github.com/yoockh/halte-concierge/internal/providers/search"
	"github.com/yoockh/halte-concierge/internal/utils"
)

// Augmentation is the outcome of one pass through the knowledge branch.
type Augmentation struct {
	Reply string
	Turn  models.ConversationTurn

	Triggered bool // the first reply was the fallback marker
	Searched  bool
	Augmented bool // a fact was found and the generator ran a second time
}

// KnowledgeBranch replaces a fallback reply with one informed by a web
// search. It runs at most one search and one extra generation per request.
type KnowledgeBranch interface {
	Resolve(ctx context.Context, turn models.ConversationTurn, reply string) (Augmentation, error)
}

type knowledgeBranch struct {
	search   search.Provider
	gen      llm.Provider
	timeouts StageTimeouts
	log      *logrus.Logger
}

func NewKnowledgeBranch(sp search.Provider, gen llm.Provider, timeouts StageTimeouts, log *logrus.Logger) KnowledgeBranch {
	if log == nil {
		log = logrus.New()
	}
	return &knowledgeBranch{search: sp, gen: gen, timeouts: timeouts, log: log}
}

func (b *knowledgeBranch) Resolve(ctx context.Context, turn models.ConversationTurn, reply string) (Augmentation, error) {
	const op = "KnowledgeBranch.Resolve"

	out := Augmentation{Reply: reply, Turn: turn}
	if !persona.IsFallback(reply) {
		return out, nil
	}
	out.Triggered = true

	if b.search == nil {
		return out, nil
	}

	// The query is what the guest asked, not what the model answered.
	fact, found := b.lookup(ctx, turn.Transcript())
	out.Searched = true
	if !found {
		return out, nil
	}

	augmented := turn.WithSearchFact(fact)

	gctx, cancel := withStageTimeout(ctx, b.timeouts.Generate)
	defer cancel()

	// Whatever comes back is final, even another fallback.
	second, err := b.gen.Generate(gctx, augmented)
	if err != nil {
		return out, stageError(utils.CodeGenerationFailed, op, "augmented generation", err)
	}

	out.Reply = second
	out.Turn = augmented
	out.Augmented = true
	return out, nil
}

// lookup swallows every search failure: a broken engine means no fact.
func (b *knowledgeBranch) lookup(ctx context.Context, query string) (string, bool) {
	sctx, cancel := withStageTimeout(ctx, b.timeouts.Search)
	defer cancel()

	fact, found, err := b.search.Lookup(sctx, query)
	if err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"code":    utils.CodeSearchUnavailable,
			"timeout": utils.IsTimeout(err),
		}).Warn("web search failed, keeping fallback reply")
		return "", false
	}
	if !found {
		b.log.Debug("web search returned nothing usable")
	}
	return fact, found
}
