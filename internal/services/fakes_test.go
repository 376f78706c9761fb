package services

import (
	"context"
	"sync"

	"github.com/yoockh/halte-concierge/internal/models"
)

type fakeSTT struct {
	text  string
	err   error
	calls int
}

func (f *fakeSTT) Transcribe(context.Context, models.AudioPayload) (string, error) {
	f.calls++
	return f.text, f.err
}
func (f *fakeSTT) Close() error { return nil }

// fakeLLM answers from a script, one entry per call, and records every turn
// it was given.
type fakeLLM struct {
	replies []string
	errs    []error
	turns   []models.ConversationTurn
}

func (f *fakeLLM) Generate(_ context.Context, turn models.ConversationTurn) (string, error) {
	i := len(f.turns)
	f.turns = append(f.turns, turn)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return f.replies[len(f.replies)-1], nil
}
func (f *fakeLLM) Close() error { return nil }
func (f *fakeLLM) calls() int   { return len(f.turns) }

type fakeTTS struct {
	audio []byte
	err   error
	texts []string
}

func (f *fakeTTS) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.texts = append(f.texts, text)
	return f.audio, f.err
}
func (f *fakeTTS) ContentType() string { return models.ContentTypeMPEG }
func (f *fakeTTS) Close() error        { return nil }

type fakeSearch struct {
	mu      sync.Mutex
	snippet string
	found   bool
	err     error
	queries []string
}

func (f *fakeSearch) Lookup(_ context.Context, query string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.snippet, f.found, f.err
}
