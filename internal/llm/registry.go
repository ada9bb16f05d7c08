package llm

import (
	"context"
	"sort"

	"github.com/Chinmay31-21/bright-path-learning-sub000/internal/model"
)

// Request is the provider-agnostic generation request. It is built once
// per caller request and replayed unchanged across provider attempts.
type Request struct {
	System      string
	Messages    []model.ChatMessage
	MaxTokens   int
	Temperature float32
}

// Provider turns a prompt into generated text. Each implementation
// normalizes its own wire shape into plain text at its boundary.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Descriptor describes one registered provider for inspection.
type Descriptor struct {
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
	Configured bool   `json:"configured"`
}

type registryEntry struct {
	rank       int
	configured bool
	provider   Provider
}

// Registry is the fixed, ordered set of providers for a deployment.
// It is constructed once at process start from configured credentials
// and passed into the Gateway; trial order is by ascending rank, never
// randomized.
type Registry struct {
	entries []registryEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register adds a provider at the given rank. Providers without a
// credential are registered as not configured so they stay visible to
// diagnostics but are never called.
func (r *Registry) Register(rank int, p Provider, configured bool) {
	r.entries = append(r.entries, registryEntry{rank: rank, configured: configured, provider: p})
	sort.SliceStable(r.entries, func(i, j int) bool { return r.entries[i].rank < r.entries[j].rank })
}

// eligible returns configured providers in rank order.
func (r *Registry) eligible() []Provider {
	var out []Provider
	for _, e := range r.entries {
		if e.configured {
			out = append(out, e.provider)
		}
	}
	return out
}

// Descriptors lists all registered providers in rank order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Descriptor{Name: e.provider.Name(), Rank: e.rank, Configured: e.configured})
	}
	return out
}

// Config carries provider credentials and model names read from the
// environment at startup. An empty key leaves that provider ineligible.
type Config struct {
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiKey   string
	GeminiModel string

	OpenRouterKey   string
	OpenRouterModel string
}

// NewRegistryFromConfig builds the deployment registry with the fixed
// fallback order: openai, then gemini, then openrouter.
func NewRegistryFromConfig(cfg Config) *Registry {
	r := NewRegistry()
	r.Register(0, NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), cfg.OpenAIKey != "")
	r.Register(1, NewGemini(cfg.GeminiKey, cfg.GeminiModel), cfg.GeminiKey != "")
	r.Register(2, NewOpenRouter(cfg.OpenRouterKey, cfg.OpenRouterModel), cfg.OpenRouterKey != "")
	return r
}
