package guardrail

import (
	"regexp"
	"strings"
)

// Declared source tokens the model is instructed to emit on its first line.
type Source string

const (
	SourceManual  Source = "MANUAL"
	SourceGeneral Source = "GENERAL"
)

// Outcome of inspecting one answer attempt.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
)

const (
	manualToken  = "SOURCE: MANUAL"
	generalToken = "SOURCE: GENERAL"

	// Appended when a MANUAL answer carries no traceable citation.
	verifyReminder = "\n\nPlease verify these details against the relevant page of your manual before relying on them."
)

// Attempt is the classified result of one generation attempt. The scope
// label is filled in by the orchestrator.
type Attempt struct {
	Scope                string
	RawText              string
	Body                 string
	DeclaredSource       Source
	SourceDeclared       bool
	HasCitation          bool
	HasUngroundedNumeric bool
	Outcome              Outcome
}

var (
	// Bracketed reference tags: [1], [manual.pdf, p.12]
	numberedTagPattern = regexp.MustCompile(`\[\d+\]`)
	bracketRefPattern  = regexp.MustCompile(`\[([^\[\]]+)\]`)
	pageMarkerPattern  = regexp.MustCompile(`(?i)\bp\.\s?\d+`)
	sectionPattern     = regexp.MustCompile(`§\s?\d+`)

	// Unit-anchored numeric claims: measurements, electrical ratings,
	// durations, temperatures. Percentages and currency are separate
	// because their symbols break word boundaries.
	unitNumberPattern = regexp.MustCompile(`(?i)\b\d+(?:[.,]\d+)?\s*(?:kv|mv|v|ka|ma|a|kw|mw|w|nm|mm|cm|km|m|kg|g|ghz|mhz|khz|hz|psi|bar|ml|l|hrs|hr|h|mins|min|secs|sec|s|volts?|amps?|watts?|degrees|minutes?|hours?|seconds?)\b`)
	percentPattern    = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*%`)
	currencyPattern   = regexp.MustCompile(`[$€£]\s?\d`)
)

// Inspector enforces the provenance protocol on raw model output. It is a
// pure classifier: same text in, same attempt out, no side effects. An
// optional allow-list restricts bracketed citations to specific uploaded
// file names.
type Inspector struct {
	allowedNames []string
}

func NewInspector(allowedNames ...string) *Inspector {
	return &Inspector{allowedNames: allowedNames}
}

// Inspect parses the declared source tag off the first line, detects
// citation markers and ungrounded numeric claims in the body, and applies
// the acceptance table. A missing source tag is treated as GENERAL: never
// assume grounding.
func (i *Inspector) Inspect(rawText string) Attempt {
	attempt := Attempt{
		RawText:        rawText,
		DeclaredSource: SourceGeneral,
	}

	body := rawText
	firstLine, rest, found := strings.Cut(strings.TrimLeft(rawText, " \t\r\n"), "\n")
	trimmed := strings.TrimSpace(firstLine)
	switch trimmed {
	case manualToken:
		attempt.DeclaredSource = SourceManual
		attempt.SourceDeclared = true
	case generalToken:
		attempt.DeclaredSource = SourceGeneral
		attempt.SourceDeclared = true
	}
	if attempt.SourceDeclared {
		if found {
			body = strings.TrimLeft(rest, "\r\n")
		} else {
			body = ""
		}
	}

	attempt.Body = body
	attempt.HasCitation = i.hasCitation(body)
	attempt.HasUngroundedNumeric = hasNumericClaim(body)

	switch {
	case attempt.DeclaredSource == SourceManual && attempt.HasCitation:
		attempt.Outcome = OutcomeAccepted
	case attempt.DeclaredSource == SourceManual:
		// Accepted with a soft nudge whether or not numbers appear
		attempt.Outcome = OutcomeAccepted
		attempt.Body = body + verifyReminder
	case attempt.HasUngroundedNumeric:
		attempt.Outcome = OutcomeRejected
	default:
		attempt.Outcome = OutcomeAccepted
	}
	return attempt
}

func (i *Inspector) hasCitation(body string) bool {
	if len(i.allowedNames) > 0 {
		// Restricted: a bracketed reference must name one of the allowed
		// uploaded files.
		for _, match := range bracketRefPattern.FindAllStringSubmatch(body, -1) {
			ref := strings.ToLower(match[1])
			for _, name := range i.allowedNames {
				if strings.Contains(ref, strings.ToLower(name)) {
					return true
				}
			}
		}
		return false
	}
	if numberedTagPattern.MatchString(body) {
		return true
	}
	if pageMarkerPattern.MatchString(body) {
		return true
	}
	return sectionPattern.MatchString(body)
}

func hasNumericClaim(body string) bool {
	return unitNumberPattern.MatchString(body) ||
		percentPattern.MatchString(body) ||
		currencyPattern.MatchString(body)
}
