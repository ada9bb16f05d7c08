package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// AcceptFunc validates a provider's raw text before the gateway accepts
// it. A non-nil error counts as a failed attempt for that provider and
// the chain moves on: malformed output is provider-specific, so the next
// provider gets a fresh try rather than the same one being retried.
type AcceptFunc func(raw string) error

// Attempt records one provider trial inside a logical request.
type Attempt struct {
	Provider string
	Err      error
}

// Result is a successful generation plus the trail of failed attempts
// that preceded it.
type Result struct {
	Text     string
	Provider string
	Attempts []Attempt
}

// Gateway dispatches a generation request across the registry's
// providers in rank order until one succeeds. Trials are strictly
// sequential; each provider is attempted at most once per request.
type Gateway struct {
	reg *Registry
}

// NewGateway creates a gateway over the given registry.
func NewGateway(reg *Registry) *Gateway {
	return &Gateway{reg: reg}
}

// Descriptors exposes the registry's provider list for diagnostics.
func (g *Gateway) Descriptors() []Descriptor {
	return g.reg.Descriptors()
}

// Generate tries each eligible provider in order with the same request.
// accept may be nil (any non-empty text wins). On total failure the
// returned error carries the classification of the last attempt and the
// Result still lists every attempt made.
func (g *Gateway) Generate(ctx context.Context, req Request, accept AcceptFunc) (*Result, error) {
	eligible := g.reg.eligible()
	if len(eligible) == 0 {
		return &Result{}, ErrNoProviderConfigured
	}

	var attempts []Attempt
	var lastErr error
	for _, p := range eligible {
		text, err := p.Generate(ctx, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = fmt.Errorf("%s: empty completion: %w", p.Name(), ErrMalformedOutput)
		}
		if err == nil && accept != nil {
			if aerr := accept(text); aerr != nil {
				err = fmt.Errorf("%s: %w", p.Name(), aerr)
			}
		}
		if err != nil {
			slog.Warn("provider attempt failed", "provider", p.Name(), "error", err)
			attempts = append(attempts, Attempt{Provider: p.Name(), Err: err})
			lastErr = err
			continue
		}
		slog.Debug("provider attempt succeeded", "provider", p.Name(), "failed_attempts", len(attempts))
		return &Result{Text: text, Provider: p.Name(), Attempts: attempts}, nil
	}
	return &Result{Attempts: attempts}, lastErr
}
