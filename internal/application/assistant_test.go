package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"voxassist/internal/application"
	"voxassist/internal/domain"
)

type mockAudioSource struct {
	commands [][]byte
	index    int
}

func (m *mockAudioSource) Start(_ context.Context) error { return nil }
func (m *mockAudioSource) Stop() error                   { return nil }
func (m *mockAudioSource) Name() string                  { return "mock" }

func (m *mockAudioSource) NextCommand(_ context.Context) ([]byte, error) {
	if m.index >= len(m.commands) {
		return nil, context.Canceled
	}
	audio := m.commands[m.index]
	m.index++
	return audio, nil
}

type mockSTT struct {
	transcriptions map[string]string
	calls          int
}

func (m *mockSTT) Transcribe(_ context.Context, audio []byte) (string, error) {
	m.calls++
	if text, ok := m.transcriptions[string(audio)]; ok {
		return text, nil
	}
	return "unknown question", nil
}

type recordingAnnouncer struct {
	mu       sync.Mutex
	answers  []string
	expected int
	done     chan struct{}
	once     sync.Once
}

func (r *recordingAnnouncer) Announce(_ context.Context, answer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, answer)
	if r.done != nil && len(r.answers) >= r.expected {
		r.once.Do(func() { close(r.done) })
	}
	return nil
}

func (r *recordingAnnouncer) Answers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.answers...)
}

func TestAssistant_TranscribesAndAnnounces(t *testing.T) {
	audioSource := &mockAudioSource{
		commands: [][]byte{[]byte("audio blob one")},
	}

	stt := &mockSTT{
		transcriptions: map[string]string{
			"audio blob one": "capital of France",
		},
	}

	primary := &mockProvider{
		name:   "DeepSeek",
		result: domain.Answer(definitiveAnswer, domain.SourcePrimary, "DeepSeek", false),
	}
	resolver := newResolver(primary, &mockProvider{name: "fallback"}, application.ResolverConfig{})

	announcer := &recordingAnnouncer{expected: 1, done: make(chan struct{})}

	assistant := application.NewAssistant(audioSource, stt, resolver, announcer, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = assistant.Run(ctx)
	}()

	select {
	case <-announcer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for an announcement")
	}
	cancel()

	answers := announcer.Answers()
	if len(answers) == 0 {
		t.Fatal("expected at least one announced answer")
	}
	if answers[0] == "" {
		t.Error("announced answer should not be empty")
	}
	if primary.calls == 0 {
		t.Error("resolver should have consulted the primary provider")
	}
}

func TestAssistant_TextCommandBypassesSTT(t *testing.T) {
	audioSource := &mockAudioSource{
		commands: [][]byte{[]byte(domain.TextCommandPrefix + "capital of France")},
	}

	stt := &mockSTT{}

	primary := &mockProvider{
		name:   "DeepSeek",
		result: domain.Answer(definitiveAnswer, domain.SourcePrimary, "DeepSeek", false),
	}
	resolver := newResolver(primary, &mockProvider{name: "fallback"}, application.ResolverConfig{})

	announcer := &recordingAnnouncer{expected: 1, done: make(chan struct{})}

	assistant := application.NewAssistant(audioSource, stt, resolver, announcer, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = assistant.Run(ctx)
	}()

	select {
	case <-announcer.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for an announcement")
	}
	cancel()

	if stt.calls != 0 {
		t.Errorf("STT should not be called for text queries, got %d calls", stt.calls)
	}
	if len(primary.queries) == 0 || primary.queries[0] != "capital of France" {
		t.Errorf("resolver should receive the unwrapped text query, got %v", primary.queries)
	}
}
