package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/persona"
	"github.com/yoockh/halte-concierge/internal/providers/llm"
	"github.com/yoockh/halte-concierge/internal/providers/stt"
	"github.com/yoockh/halte-concierge/internal/providers/tts"
	"github.com/yoockh/halte-concierge/internal/utils"
)

type TalkResult struct {
	Audio       []byte
	ContentType string
	Transcript  string
	Reply       string
	Augmented   bool
	Stages      []models.Stage
}

// TalkService answers one recorded question with synthesized speech.
type TalkService interface {
	Handle(ctx context.Context, requestID string, audio models.AudioPayload) (*TalkResult, error)
}

type talkService struct {
	persona   persona.Config
	stt       stt.Provider
	gen       llm.Provider
	knowledge KnowledgeBranch
	tts       tts.Provider
	timeouts  StageTimeouts
	log       *logrus.Logger
}

func NewTalkService(
	p persona.Config,
	transcriber stt.Provider,
	gen llm.Provider,
	knowledge KnowledgeBranch,
	synth tts.Provider,
	timeouts StageTimeouts,
	log *logrus.Logger,
) TalkService {
	if log == nil {
		log = logrus.New()
	}
	return &talkService{
		persona:   p,
		stt:       transcriber,
		gen:       gen,
		knowledge: knowledge,
		tts:       synth,
		timeouts:  timeouts,
		log:       log,
	}
}

// Handle runs transcription, generation, the optional knowledge branch and
// synthesis strictly in that order. The first failure stops the run; nothing
// is retried.
func (s *talkService) Handle(ctx context.Context, requestID string, audio models.AudioPayload) (*TalkResult, error) {
	const op = "TalkService.Handle"

	run := newPipelineRun(s.log.WithField("request_id", requestID))

	if audio.Empty() {
		return nil, run.fail(utils.E(utils.CodeMissingPayload, op, "no audio attached", nil))
	}

	tctx, cancel := withStageTimeout(ctx, s.timeouts.Transcribe)
	transcript, err := s.stt.Transcribe(tctx, audio)
	cancel()
	if err != nil {
		return nil, run.fail(stageError(utils.CodeTranscriptionFailed, op, "transcribe", err))
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, run.fail(utils.E(utils.CodeTranscriptionFailed, op, "transcribe", utils.ErrEmptyTranscript))
	}
	run.advance(models.StageTranscribed)

	turn := models.NewConversationTurn(s.persona.Instructions(), transcript)

	gctx, cancel := withStageTimeout(ctx, s.timeouts.Generate)
	reply, err := s.gen.Generate(gctx, turn)
	cancel()
	if err != nil {
		return nil, run.fail(stageError(utils.CodeGenerationFailed, op, "generate", err))
	}
	run.advance(models.StageReplied)

	aug := Augmentation{Reply: reply, Turn: turn}
	if s.knowledge != nil {
		aug, err = s.knowledge.Resolve(ctx, turn, reply)
		if err != nil {
			return nil, run.fail(err)
		}
		if aug.Augmented {
			run.advance(models.StageAugmented)
		}
	}

	sctx, cancel := withStageTimeout(ctx, s.timeouts.Synthesize)
	speech, err := s.tts.Synthesize(sctx, aug.Reply)
	cancel()
	if err != nil {
		return nil, run.fail(stageError(utils.CodeSynthesisFailed, op, "synthesize", err))
	}
	if len(speech) == 0 {
		return nil, run.fail(utils.E(utils.CodeSynthesisFailed, op, "synthesize", utils.ErrEmptyAudio))
	}
	run.advance(models.StageSynthesized)

	contentType := s.tts.ContentType()
	if contentType == "" {
		contentType = models.ContentTypeMPEG
	}

	run.log.WithFields(logrus.Fields{
		"augmented":   aug.Augmented,
		"searched":    aug.Searched,
		"fallback":    aug.Triggered,
		"audio_bytes": len(speech),
	}).Info("talk pipeline complete")

	return &TalkResult{
		Audio:       speech,
		ContentType: contentType,
		Transcript:  transcript,
		Reply:       aug.Reply,
		Augmented:   aug.Augmented,
		Stages:      run.stages,
	}, nil
}

// pipelineRun tracks the stage sequence of one request for logs and results.
type pipelineRun struct {
	log    *logrus.Entry
	stage  models.Stage
	stages []models.Stage
	mark   time.Time
}

func newPipelineRun(log *logrus.Entry) *pipelineRun {
	return &pipelineRun{
		log:    log,
		stage:  models.StageReceived,
		stages: []models.Stage{models.StageReceived},
		mark:   time.Now(),
	}
}

func (r *pipelineRun) advance(stage models.Stage) {
	now := time.Now()
	r.log.WithFields(logrus.Fields{
		"stage":      stage,
		"latency_ms": now.Sub(r.mark).Milliseconds(),
	}).Debug("pipeline stage")
	r.stage = stage
	r.stages = append(r.stages, stage)
	r.mark = now
}

func (r *pipelineRun) fail(err error) error {
	fields := logrus.Fields{
		"stage":        models.StageFailed,
		"failed_after": r.stage,
		"code":         utils.CodeOf(err),
		"timeout":      utils.IsTimeout(err),
	}
	var ae *utils.AppError
	if errors.As(err, &ae) {
		fields["op"] = ae.Op
	}
	r.log.WithFields(fields).WithError(err).Error("talk pipeline failed")
	r.stages = append(r.stages, models.StageFailed)
	return err
}
