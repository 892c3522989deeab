package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pgvector/pgvector-go"
)

const fakeTextResponse = "```json\n" + `{
  "wedding_summary": "A modern civil ceremony for Alex and Sam with 80 guests.",
  "insights": ["Book the venue early", "Keep the palette to three colors"],
  "style_guide": {
    "color_palette": [{"name": "Sage", "hex": "#9caf88"}, {"name": "Ivory", "hex": "fff"}],
    "keywords": ["clean lines", "greenery"],
    "themes": ["modern"]
  }
}` + "\n```"

type fakeText struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	resp    string
	err     error
}

func (f *fakeText) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if f.resp != "" {
		return f.resp, nil
	}
	return fakeTextResponse, nil
}

func (f *fakeText) ModelName() string { return "fake-text" }

func (f *fakeText) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeImages struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) ([]byte, error) {
	n := f.calls.Add(1)
	if f.fail.Load() {
		return nil, errors.New("image backend unavailable")
	}
	return []byte(fmt.Sprintf("png-%d-%d", n, len(prompt))), nil
}

func (f *fakeImages) ModelName() string { return "fake-image" }

type fakeEmbedder struct {
	calls atomic.Int32
}

func (f *fakeEmbedder) GetEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	f.calls.Add(1)
	return pgvector.NewVector([]float32{1, float32(len(text) % 7), 0.5}), nil
}

type sentMail struct {
	Kind    string
	To      string
	Payload string
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMail) record(m sentMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return f.err
}

func (f *fakeMail) SendMailToNotifyUser(to, subject, _, _, _ string) error {
	return f.record(sentMail{Kind: "notify", To: to, Payload: subject})
}

func (f *fakeMail) SendMailToResetPassword(email, code string) error {
	return f.record(sentMail{Kind: "reset", To: email, Payload: code})
}

func (f *fakeMail) SendMoodboardShare(to, _, shareID string) error {
	return f.record(sentMail{Kind: "share", To: to, Payload: shareID})
}

func (f *fakeMail) Sent() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMail(nil), f.sent...)
}
