package orchestrator

import (
	"context"
	"errors"

	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/pkg/assistant/guardrail"
	"trade-assistant-be/pkg/assistant/scope"
	"trade-assistant-be/pkg/provider"

	"github.com/cenkalti/backoff/v5"
)

// ModeRefused is the terminal mode when every scope was rejected. A refusal
// is a first-class outcome, not an error.
const ModeRefused = "refused"

// RefusalText is deterministic: both scopes rejected means we ask for a
// better source instead of emitting an unverified numeric answer.
const RefusalText = "I can't give you a verified answer to that yet. " +
	"Upload the relevant manual or specification sheet, or tell me the exact document to check, " +
	"and I'll answer from it with a citation."

const systemPrompt = `You are an Australian trade assistant.
Begin your reply with exactly one line: "SOURCE: MANUAL" if every technical fact comes from the retrieved documents, or "SOURCE: GENERAL" otherwise.
When answering from documents, cite the document and page for each fact, like [manual.pdf, p.12] or [1].
Never state a numeric rating, measurement, duration or price you cannot cite. If the documents do not contain the answer, say you are unsure and suggest how to verify safely.
Include safety and compliance notes when relevant. Prefer step-by-step, practical guidance.`

// Policy tunes one answer request.
type Policy struct {
	// StrictRetrieval forces the provider to consult retrieval on every
	// scoped attempt instead of answering unaided.
	StrictRetrieval bool
	// AllowedSourceNames, when set, restricts citations on grounded scopes
	// to the named uploaded files. Escalated scopes may cite library
	// documents, so the restriction does not apply there.
	AllowedSourceNames []string
}

// Result is the terminal outcome of one question.
type Result struct {
	Text     string
	Mode     string
	Attempts []guardrail.Attempt
}

// Orchestrator drives generation attempts across retrieval scopes in fixed
// priority order and decides accept, escalate or refuse per attempt.
type Orchestrator struct {
	generator provider.GenerationProvider
	logger    logger.ILogger
}

func NewOrchestrator(generator provider.GenerationProvider, sysLogger logger.ILogger) *Orchestrator {
	return &Orchestrator{
		generator: generator,
		logger:    sysLogger,
	}
}

// Answer walks the scopes in order: generate, inspect, then accept, advance
// to the next scope, or refuse after the last. Transient provider failures
// get one retry with backoff per scope; grounding rejections never retry
// the same scope, they escalate.
func (o *Orchestrator) Answer(ctx context.Context, question string, scopes []scope.Scope, policy Policy) (*Result, error) {
	if len(scopes) == 0 {
		return nil, errors.New("no retrieval scopes to attempt")
	}
	restricted := guardrail.NewInspector(policy.AllowedSourceNames...)
	open := guardrail.NewInspector()
	result := &Result{}

	for _, sc := range scopes {
		text, err := o.generateWithRetry(ctx, question, sc, policy)
		if err != nil {
			return nil, err
		}

		inspector := open
		if sc.RequireGrounding {
			inspector = restricted
		}
		attempt := inspector.Inspect(text)
		attempt.Scope = sc.Label
		result.Attempts = append(result.Attempts, attempt)

		if attempt.Outcome == guardrail.OutcomeAccepted {
			result.Text = attempt.Body
			result.Mode = sc.Label
			return result, nil
		}

		o.logger.Info("orchestrator", "attempt rejected by guardrail, escalating scope", map[string]interface{}{
			"scope":           sc.Label,
			"declared_source": string(attempt.DeclaredSource),
			"numeric_claim":   attempt.HasUngroundedNumeric,
		})
	}

	result.Text = RefusalText
	result.Mode = ModeRefused
	return result, nil
}

func (o *Orchestrator) generateWithRetry(ctx context.Context, question string, sc scope.Scope, policy Policy) (string, error) {
	force := len(sc.IndexIds) > 0 && (sc.RequireGrounding || policy.StrictRetrieval)
	req := provider.GenerationRequest{
		SystemPrompt:   systemPrompt,
		UserPrompt:     question,
		IndexIds:       sc.IndexIds,
		ForceRetrieval: force,
	}

	operation := func() (string, error) {
		text, err := o.generator.Generate(ctx, req)
		if err != nil && !provider.IsTransient(err) {
			return "", backoff.Permanent(err)
		}
		return text, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(2),
	)
}
