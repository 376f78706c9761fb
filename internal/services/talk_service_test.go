package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/halte-concierge/internal/logger"
	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/persona"
	"github.com/yoockh/halte-concierge/internal/utils"
)

var guestAudio = models.AudioPayload{Data: []byte("webm-bytes"), Filename: "audio.webm"}

type talkFixture struct {
	stt    *fakeSTT
	llm    *fakeLLM
	tts    *fakeTTS
	search *fakeSearch
	svc    TalkService
}

func newTalkFixture(replies []string, sr *fakeSearch) *talkFixture {
	f := &talkFixture{
		stt:    &fakeSTT{text: "À quelle heure ouvre la Cité du Vin ?"},
		llm:    &fakeLLM{replies: replies},
		tts:    &fakeTTS{audio: []byte("mp3-bytes")},
		search: sr,
	}
	log := logger.Discard()
	timeouts := DefaultStageTimeouts()
	kb := NewKnowledgeBranch(sr, f.llm, timeouts, log)
	f.svc = NewTalkService(persona.Default(), f.stt, f.llm, kb, f.tts, timeouts, log)
	return f
}

func TestTalk_DirectAnswer(t *testing.T) {
	f := newTalkFixture([]string{"Le petit-déjeuner est servi de 8h à 10h30."}, &fakeSearch{})

	res, err := f.svc.Handle(context.Background(), "req-1", guestAudio)
	require.NoError(t, err)

	assert.Equal(t, []byte("mp3-bytes"), res.Audio)
	assert.Equal(t, models.ContentTypeMPEG, res.ContentType)
	assert.False(t, res.Augmented)
	assert.Equal(t, 1, f.stt.calls)
	assert.Equal(t, 1, f.llm.calls())
	assert.Empty(t, f.search.queries)
	assert.Equal(t, []string{"Le petit-déjeuner est servi de 8h à 10h30."}, f.tts.texts)
	assert.Equal(t, []models.Stage{
		models.StageReceived, models.StageTranscribed, models.StageReplied, models.StageSynthesized,
	}, res.Stages)

	turn := f.llm.turns[0]
	require.Equal(t, 2, turn.Len())
	assert.Equal(t, persona.Default().Instructions(), turn.Persona())
	assert.Equal(t, "À quelle heure ouvre la Cité du Vin ?", turn.Transcript())
}

func TestTalk_PartialAnswerIsNotAFallback(t *testing.T) {
	reply := "Je n'ai pas cette information précise, mais le check-in est à 17h."
	sr := &fakeSearch{snippet: "réponse web", found: true}
	f := newTalkFixture([]string{reply, "ne doit pas servir"}, sr)

	res, err := f.svc.Handle(context.Background(), "req-partial", guestAudio)
	require.NoError(t, err)

	assert.False(t, res.Augmented)
	assert.Equal(t, reply, res.Reply)
	assert.Equal(t, 1, f.llm.calls())
	assert.Empty(t, sr.queries)
	assert.Equal(t, []string{reply}, f.tts.texts)
}

func TestTalk_FallbackWithSearchResult(t *testing.T) {
	sr := &fakeSearch{snippet: "Ouvert tous les jours de 10h à 19h", found: true}
	f := newTalkFixture([]string{persona.FallbackPhrase, "La Cité du Vin ouvre à 10h."}, sr)

	res, err := f.svc.Handle(context.Background(), "req-2", guestAudio)
	require.NoError(t, err)

	assert.True(t, res.Augmented)
	assert.Equal(t, 2, f.llm.calls())
	assert.Equal(t, []string{"À quelle heure ouvre la Cité du Vin ?"}, sr.queries)
	assert.NotEqual(t, persona.FallbackPhrase, res.Reply)
	assert.Equal(t, []string{"La Cité du Vin ouvre à 10h."}, f.tts.texts)
	assert.Contains(t, res.Stages, models.StageAugmented)

	second := f.llm.turns[1].Messages()
	require.Len(t, second, 3)
	assert.Equal(t, persona.Default().Instructions(), second[0].Content)
	assert.Equal(t, models.RoleSystem, second[2].Role)
	assert.Equal(t, models.SearchFactPrefix+"Ouvert tous les jours de 10h à 19h", second[2].Content)
}

func TestTalk_FallbackWithoutSearchResult(t *testing.T) {
	cases := map[string]*fakeSearch{
		"no result":     {},
		"search failed": {err: utils.E(utils.CodeSearchUnavailable, "test", "down", nil)},
	}
	for name, sr := range cases {
		t.Run(name, func(t *testing.T) {
			f := newTalkFixture([]string{persona.FallbackPhrase}, sr)

			res, err := f.svc.Handle(context.Background(), "req-3", guestAudio)
			require.NoError(t, err)

			assert.Equal(t, persona.FallbackPhrase, res.Reply)
			assert.False(t, res.Augmented)
			assert.Len(t, sr.queries, 1)
			assert.Equal(t, 1, f.llm.calls())
			assert.Len(t, f.tts.texts, 1)
		})
	}
}

func TestTalk_SecondFallbackIsFinal(t *testing.T) {
	sr := &fakeSearch{snippet: "rien de précis", found: true}
	f := newTalkFixture([]string{persona.FallbackPhrase, persona.FallbackPhrase}, sr)

	res, err := f.svc.Handle(context.Background(), "req-4", guestAudio)
	require.NoError(t, err)

	assert.Equal(t, persona.FallbackPhrase, res.Reply)
	assert.Equal(t, 2, f.llm.calls())
	assert.Len(t, sr.queries, 1)
	assert.Len(t, f.tts.texts, 1)
}

func TestTalk_MissingPayloadMakesNoCalls(t *testing.T) {
	f := newTalkFixture([]string{"x"}, &fakeSearch{})

	_, err := f.svc.Handle(context.Background(), "req-5", models.AudioPayload{})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeMissingPayload))
	assert.Zero(t, f.stt.calls)
	assert.Zero(t, f.llm.calls())
	assert.Empty(t, f.tts.texts)
}

func TestTalk_StageFailuresShortCircuit(t *testing.T) {
	t.Run("transcription", func(t *testing.T) {
		f := newTalkFixture([]string{"x"}, &fakeSearch{})
		f.stt.err = errors.New("network")

		_, err := f.svc.Handle(context.Background(), "r", guestAudio)
		assert.True(t, utils.IsCode(err, utils.CodeTranscriptionFailed))
		assert.Zero(t, f.llm.calls())
		assert.Empty(t, f.tts.texts)
	})

	t.Run("blank transcript", func(t *testing.T) {
		f := newTalkFixture([]string{"x"}, &fakeSearch{})
		f.stt.text = "   "

		_, err := f.svc.Handle(context.Background(), "r", guestAudio)
		assert.True(t, utils.IsCode(err, utils.CodeTranscriptionFailed))
		assert.ErrorIs(t, err, utils.ErrEmptyTranscript)
		assert.Zero(t, f.llm.calls())
	})

	t.Run("generation", func(t *testing.T) {
		f := newTalkFixture([]string{"x"}, &fakeSearch{})
		f.llm.errs = []error{utils.E(utils.CodeGenerationFailed, "test", "malformed", utils.ErrMalformedReply)}

		_, err := f.svc.Handle(context.Background(), "r", guestAudio)
		assert.True(t, utils.IsCode(err, utils.CodeGenerationFailed))
		assert.Empty(t, f.tts.texts)
	})

	t.Run("augmented generation", func(t *testing.T) {
		sr := &fakeSearch{snippet: "fait", found: true}
		f := newTalkFixture([]string{persona.FallbackPhrase}, sr)
		f.llm.errs = []error{nil, errors.New("provider down")}

		_, err := f.svc.Handle(context.Background(), "r", guestAudio)
		assert.True(t, utils.IsCode(err, utils.CodeGenerationFailed))
		assert.Empty(t, f.tts.texts)
	})

	t.Run("synthesis", func(t *testing.T) {
		f := newTalkFixture([]string{"ok"}, &fakeSearch{})
		f.tts.err = errors.New("speech down")

		_, err := f.svc.Handle(context.Background(), "r", guestAudio)
		assert.True(t, utils.IsCode(err, utils.CodeSynthesisFailed))
		assert.Len(t, f.tts.texts, 1)
	})

	t.Run("empty synthesis", func(t *testing.T) {
		f := newTalkFixture([]string{"ok"}, &fakeSearch{})
		f.tts.audio = nil

		_, err := f.svc.Handle(context.Background(), "r", guestAudio)
		assert.True(t, utils.IsCode(err, utils.CodeSynthesisFailed))
		assert.ErrorIs(t, err, utils.ErrEmptyAudio)
	})
}

func TestTalk_RepeatableStageSequence(t *testing.T) {
	sr := &fakeSearch{snippet: "10h", found: true}
	f := newTalkFixture([]string{persona.FallbackPhrase, "Dès 10h."}, sr)

	first, err := f.svc.Handle(context.Background(), "a", guestAudio)
	require.NoError(t, err)

	f.llm.turns = nil
	second, err := f.svc.Handle(context.Background(), "b", guestAudio)
	require.NoError(t, err)

	assert.Equal(t, first.Stages, second.Stages)
	assert.Equal(t, first.Audio, second.Audio)
	assert.Equal(t, first.Reply, second.Reply)
}
