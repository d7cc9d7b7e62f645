package controllers

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	errs    []error
	reply   func(prompt string) string
	prompts []string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if f.reply != nil {
		return f.reply(prompt), nil
	}
	return "echo: " + prompt, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	return f.audio, f.err
}

type fakeArchive struct {
	kinds []string
	err   error
}

func (f *fakeArchive) StoreAudio(ctx context.Context, userID uuid.UUID, kind string, audio []byte, meta map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.kinds = append(f.kinds, kind)
	return kind + "/" + userID.String(), nil
}

var errUpstream = errors.New("upstream down")
