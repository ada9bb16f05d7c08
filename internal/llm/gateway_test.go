package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// fakeProvider scripts one provider's behavior and records whether it
// was called.
type fakeProvider struct {
	name   string
	text   string
	err    error
	called int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, _ Request) (string, error) {
	f.called++
	return f.text, f.err
}

func testRequest() Request {
	return Request{
		System:   "You are a tutor.",
		Messages: []model.ChatMessage{{Role: model.RoleUser, Content: "Explain osmosis."}},
	}
}

func TestGenerateFirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "alpha", text: "osmosis is diffusion of water"}
	second := &fakeProvider{name: "beta", text: "should never run"}

	reg := NewRegistry()
	reg.Register(0, first, true)
	reg.Register(1, second, true)

	res, err := NewGateway(reg).Generate(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Provider != "alpha" {
		t.Errorf("Provider = %q, want alpha", res.Provider)
	}
	if len(res.Attempts) != 0 {
		t.Errorf("Attempts = %d, want 0", len(res.Attempts))
	}
	if second.called != 0 {
		t.Error("second provider was called despite first succeeding")
	}
}

func TestGenerateFallbackOrder(t *testing.T) {
	// Registration order must not matter, only rank.
	third := &fakeProvider{name: "gamma", text: "answer from gamma"}
	first := &fakeProvider{name: "alpha", err: fmt.Errorf("alpha: %w", ErrRateLimited)}
	second := &fakeProvider{name: "beta", err: fmt.Errorf("beta: %w", ErrTransport)}

	reg := NewRegistry()
	reg.Register(2, third, true)
	reg.Register(0, first, true)
	reg.Register(1, second, true)

	res, err := NewGateway(reg).Generate(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Provider != "gamma" {
		t.Errorf("Provider = %q, want gamma", res.Provider)
	}
	if len(res.Attempts) != 2 {
		t.Fatalf("Attempts = %d, want 2", len(res.Attempts))
	}
	if res.Attempts[0].Provider != "alpha" || res.Attempts[1].Provider != "beta" {
		t.Errorf("attempt order = %s, %s", res.Attempts[0].Provider, res.Attempts[1].Provider)
	}
	if !errors.Is(res.Attempts[0].Err, ErrRateLimited) {
		t.Errorf("first attempt error = %v", res.Attempts[0].Err)
	}
}

func TestGenerateAllFail(t *testing.T) {
	first := &fakeProvider{name: "alpha", err: fmt.Errorf("alpha: %w", ErrRateLimited)}
	second := &fakeProvider{name: "beta", err: fmt.Errorf("beta: %w", ErrQuotaExhausted)}

	reg := NewRegistry()
	reg.Register(0, first, true)
	reg.Register(1, second, true)

	res, err := NewGateway(reg).Generate(context.Background(), testRequest(), nil)
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("error = %v, want last attempt's classification", err)
	}
	if len(res.Attempts) != 2 {
		t.Errorf("Attempts = %d, want 2", len(res.Attempts))
	}
}

func TestGenerateNoProviders(t *testing.T) {
	reg := NewRegistry()
	reg.Register(0, &fakeProvider{name: "alpha", text: "hi"}, false)

	_, err := NewGateway(reg).Generate(context.Background(), testRequest(), nil)
	if !errors.Is(err, ErrNoProviderConfigured) {
		t.Errorf("error = %v, want ErrNoProviderConfigured", err)
	}
}

func TestGenerateSkipsUnconfigured(t *testing.T) {
	missing := &fakeProvider{name: "alpha", text: "never"}
	present := &fakeProvider{name: "beta", text: "answer"}

	reg := NewRegistry()
	reg.Register(0, missing, false)
	reg.Register(1, present, true)

	res, err := NewGateway(reg).Generate(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Provider != "beta" {
		t.Errorf("Provider = %q, want beta", res.Provider)
	}
	if missing.called != 0 {
		t.Error("unconfigured provider was called")
	}
}

func TestGenerateEmptyCompletionIsMalformed(t *testing.T) {
	blank := &fakeProvider{name: "alpha", text: "   \n"}
	reg := NewRegistry()
	reg.Register(0, blank, true)

	_, err := NewGateway(reg).Generate(context.Background(), testRequest(), nil)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("error = %v, want ErrMalformedOutput", err)
	}
}

func TestGenerateAcceptTriggersFallback(t *testing.T) {
	first := &fakeProvider{name: "alpha", text: "not json at all"}
	second := &fakeProvider{name: "beta", text: `{"ok": true}`}

	reg := NewRegistry()
	reg.Register(0, first, true)
	reg.Register(1, second, true)

	accept := func(raw string) error {
		if raw != `{"ok": true}` {
			return fmt.Errorf("unusable payload: %w", ErrMalformedOutput)
		}
		return nil
	}
	res, err := NewGateway(reg).Generate(context.Background(), testRequest(), accept)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Provider != "beta" {
		t.Errorf("Provider = %q, want beta", res.Provider)
	}
	if len(res.Attempts) != 1 || !errors.Is(res.Attempts[0].Err, ErrMalformedOutput) {
		t.Errorf("attempts = %+v, want one malformed-output attempt for alpha", res.Attempts)
	}
	if first.called != 1 || second.called != 1 {
		t.Errorf("calls = %d, %d, want 1 each", first.called, second.called)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"plain 429", 429, "slow down", ErrRateLimited},
		{"429 quota body", 429, "You exceeded your current quota", ErrQuotaExhausted},
		{"429 billing body", 429, "Billing hard limit reached", ErrQuotaExhausted},
		{"429 credit body", 429, "insufficient CREDIT remaining", ErrQuotaExhausted},
		{"402", 402, "", ErrQuotaExhausted},
		{"500", 500, "internal error", ErrTransport},
		{"401", 401, "bad key", ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.status, tt.body); !errors.Is(got, tt.want) {
				t.Errorf("classifyStatus(%d, %q) = %v, want %v", tt.status, tt.body, got, tt.want)
			}
		})
	}
}

func TestDescriptorsOrdered(t *testing.T) {
	reg := NewRegistry()
	reg.Register(1, &fakeProvider{name: "beta"}, false)
	reg.Register(0, &fakeProvider{name: "alpha"}, true)

	ds := reg.Descriptors()
	if len(ds) != 2 {
		t.Fatalf("Descriptors = %d entries", len(ds))
	}
	if ds[0].Name != "alpha" || ds[1].Name != "beta" {
		t.Errorf("descriptor order = %s, %s", ds[0].Name, ds[1].Name)
	}
	if !ds[0].Configured || ds[1].Configured {
		t.Errorf("configured flags = %v, %v", ds[0].Configured, ds[1].Configured)
	}
}
