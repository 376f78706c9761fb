package services

import (
	"context"
	"time"

	"github.com/yoockh/halte-concierge/internal/utils"
)

// StageTimeouts bounds each remote call of the talk pipeline. A zero value
// leaves that stage bounded only by the caller's context.
type StageTimeouts struct {
	Transcribe time.Duration
	Generate   time.Duration
	Search     time.Duration
	Synthesize time.Duration
}

func DefaultStageTimeouts() StageTimeouts {
	return StageTimeouts{
		Transcribe: 30 * time.Second,
		Generate:   30 * time.Second,
		Search:     8 * time.Second,
		Synthesize: 30 * time.Second,
	}
}

func withStageTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// stageError tags err with the stage's code unless a provider already did.
func stageError(code utils.Code, op, msg string, err error) error {
	if utils.IsCode(err, code) {
		return err
	}
	return utils.E(code, op, msg, err)
}
