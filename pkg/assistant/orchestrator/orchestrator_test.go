package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trade-assistant-be/internal/pkg/logger"
	"trade-assistant-be/pkg/assistant/scope"
	"trade-assistant-be/pkg/provider"
)

// fakeGenerator scripts replies and errors per call, in order. The last
// reply repeats once the script runs out.
type fakeGenerator struct {
	replies      []string
	errs         []error
	calls        int
	seenRequests []provider.GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req provider.GenerationRequest) (string, error) {
	i := f.calls
	f.calls++
	f.seenRequests = append(f.seenRequests, req)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return f.replies[len(f.replies)-1], nil
}

func twoScopes() []scope.Scope {
	return scope.BuildScopes("vs_session", []string{"vs_lib"}, true)
}

func TestAnswerAcceptsFirstGroundedScope(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		"SOURCE: MANUAL\nTorque the bolts to 25 Nm [1].",
	}}
	o := NewOrchestrator(gen, logger.NewNop())

	res, err := o.Answer(context.Background(), "torque spec?", twoScopes(), Policy{})
	if err != nil {
		t.Fatal(err)
	}

	if res.Mode != scope.LabelUploadsOnly {
		t.Errorf("Mode = %q, want %q", res.Mode, scope.LabelUploadsOnly)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1: no escalation after acceptance", gen.calls)
	}
	if strings.HasPrefix(res.Text, "SOURCE:") {
		t.Errorf("Text still carries the source tag: %q", res.Text)
	}
	if len(res.Attempts) != 1 {
		t.Errorf("Attempts = %d, want 1", len(res.Attempts))
	}
}

func TestAnswerEscalatesOnRejection(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		"SOURCE: GENERAL\nIt is rated at 230V.",               // rejected, escalate
		"SOURCE: MANUAL\nRated at 230V per the plate [p. 4].", // accepted
	}}
	o := NewOrchestrator(gen, logger.NewNop())

	res, err := o.Answer(context.Background(), "voltage rating?", twoScopes(), Policy{})
	if err != nil {
		t.Fatal(err)
	}

	if res.Mode != scope.LabelUploadsPlusLibrary {
		t.Errorf("Mode = %q, want escalated scope", res.Mode)
	}
	if len(res.Attempts) != 2 {
		t.Errorf("Attempts = %d, want 2", len(res.Attempts))
	}
}

func TestAnswerRefusesAfterAllScopesRejected(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		"SOURCE: GENERAL\nProbably 32 A.",
		"SOURCE: GENERAL\nStill guessing 32 A.",
	}}
	o := NewOrchestrator(gen, logger.NewNop())

	res, err := o.Answer(context.Background(), "breaker size?", twoScopes(), Policy{})
	if err != nil {
		t.Fatal(err)
	}

	if res.Mode != ModeRefused {
		t.Errorf("Mode = %q, want %q", res.Mode, ModeRefused)
	}
	if res.Text != RefusalText {
		t.Errorf("refusal text not deterministic: %q", res.Text)
	}
}

func TestAnswerRefusalIsDeterministic(t *testing.T) {
	run := func() *Result {
		gen := &fakeGenerator{replies: []string{"SOURCE: GENERAL\nAbout 15%."}}
		o := NewOrchestrator(gen, logger.NewNop())
		res, err := o.Answer(context.Background(), "derating?", twoScopes(), Policy{})
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	first := run()
	second := run()
	if first.Text != second.Text || first.Mode != second.Mode {
		t.Errorf("refusals differ: %+v vs %+v", first, second)
	}
}

func TestAnswerRetriesTransientOnce(t *testing.T) {
	gen := &fakeGenerator{
		errs:    []error{provider.Transient(errors.New("upstream 503"))},
		replies: []string{"", "SOURCE: MANUAL\nSee installation notes [1]."},
	}
	o := NewOrchestrator(gen, logger.NewNop())

	res, err := o.Answer(context.Background(), "install steps?", twoScopes(), Policy{})
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 (one retry)", gen.calls)
	}
	if res.Mode != scope.LabelUploadsOnly {
		t.Errorf("Mode = %q", res.Mode)
	}
}

func TestAnswerDoesNotRetryPermanentErrors(t *testing.T) {
	permanent := errors.New("invalid api key")
	gen := &fakeGenerator{errs: []error{permanent, permanent}}
	o := NewOrchestrator(gen, logger.NewNop())

	_, err := o.Answer(context.Background(), "anything", twoScopes(), Policy{})
	if err == nil {
		t.Fatal("want error")
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1: permanent errors never retry", gen.calls)
	}
}

func TestAnswerForcesRetrievalOnGroundedScope(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"SOURCE: MANUAL\nDetail [1]."}}
	o := NewOrchestrator(gen, logger.NewNop())

	if _, err := o.Answer(context.Background(), "q", twoScopes(), Policy{}); err != nil {
		t.Fatal(err)
	}

	if !gen.seenRequests[0].ForceRetrieval {
		t.Error("uploads-only attempt did not force retrieval")
	}
}

func TestAnswerStrictPolicyForcesAllScopes(t *testing.T) {
	gen := &fakeGenerator{replies: []string{
		"SOURCE: GENERAL\nAbout 10 mm.",
		"SOURCE: MANUAL\n10 mm per drawing [1].",
	}}
	o := NewOrchestrator(gen, logger.NewNop())

	if _, err := o.Answer(context.Background(), "q", twoScopes(), Policy{StrictRetrieval: true}); err != nil {
		t.Fatal(err)
	}

	for i, req := range gen.seenRequests {
		if !req.ForceRetrieval {
			t.Errorf("request %d did not force retrieval under strict policy", i)
		}
	}
}

func TestAnswerRestrictsCitationsOnGroundedScopeOnly(t *testing.T) {
	policy := Policy{AllowedSourceNames: []string{"boiler.pdf"}}

	// Grounded scope: a bare numbered tag does not satisfy the allow-list,
	// so the answer carries the verify reminder.
	gen := &fakeGenerator{replies: []string{"SOURCE: MANUAL\nTorque is 25 Nm [1]."}}
	o := NewOrchestrator(gen, logger.NewNop())
	res, err := o.Answer(context.Background(), "q", twoScopes(), policy)
	if err != nil {
		t.Fatal(err)
	}
	if res.Attempts[0].HasCitation {
		t.Error("bare numbered tag satisfied the upload allow-list")
	}
	if !strings.Contains(res.Text, "verify these details") {
		t.Error("uncited grounded answer missing the verify reminder")
	}

	// Citing the uploaded file is accepted cleanly.
	gen = &fakeGenerator{replies: []string{"SOURCE: MANUAL\nTorque is 25 Nm [boiler.pdf, p.12]."}}
	o = NewOrchestrator(gen, logger.NewNop())
	res, err = o.Answer(context.Background(), "q", twoScopes(), policy)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Attempts[0].HasCitation {
		t.Error("citation naming the uploaded file not recognised")
	}

	// Escalated scope: library citations are not bound by the allow-list.
	gen = &fakeGenerator{replies: []string{
		"SOURCE: GENERAL\nAbout 25 Nm.",
		"SOURCE: MANUAL\nTorque is 25 Nm [code-of-practice.pdf, p.3].",
	}}
	o = NewOrchestrator(gen, logger.NewNop())
	res, err = o.Answer(context.Background(), "q", twoScopes(), policy)
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != scope.LabelUploadsPlusLibrary {
		t.Fatalf("Mode = %q", res.Mode)
	}
	if !res.Attempts[1].HasCitation {
		t.Error("library citation rejected on the escalated scope")
	}
}

func TestAnswerRequiresScopes(t *testing.T) {
	o := NewOrchestrator(&fakeGenerator{replies: []string{"x"}}, logger.NewNop())
	if _, err := o.Answer(context.Background(), "q", nil, Policy{}); err == nil {
		t.Error("want error for empty scope list")
	}
}
