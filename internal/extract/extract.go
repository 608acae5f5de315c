// Package extract turns raw language-model replies into structured decisions.
// A reply conventionally ends with a marker ("JSON:") followed by a small
// record carrying vibe / confirm_request / confirmed fields. Parsing is
// tolerant: anything malformed degrades to a no-op decision and the reply is
// still usable as spoken text with the structured residue stripped out.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"vibenest/internal/logger"
	"vibenest/internal/preset"
)

// Kind classifies what the reply asks the state machine to do.
type Kind int

const (
	// KindNoOp carries no actionable decision.
	KindNoOp Kind = iota
	// KindPropose asks the user whether to switch to Decision.Vibe.
	KindPropose
	// KindConfirm records that the user agreed to the pending proposal.
	KindConfirm
	// KindDecline records that the user refused the pending proposal.
	KindDecline
)

func (k Kind) String() string {
	switch k {
	case KindPropose:
		return "propose"
	case KindConfirm:
		return "confirm"
	case KindDecline:
		return "decline"
	default:
		return "noop"
	}
}

// Decision is the structured outcome of one reply.
// Hint is a weak mood signal recovered from plain text when no structured
// block parsed; it is for logging only and must never drive a transition.
type Decision struct {
	Kind Kind
	Vibe string
	Hint string
}

// markerRe finds the structured-block marker, case-insensitively.
var markerRe = regexp.MustCompile(`(?i)json\s*:`)

// fragmentRe matches inline JSON fragments mentioning recognized field names,
// wherever the model happened to embed them mid-sentence.
var fragmentRe = regexp.MustCompile(`\{[^{}]*"(?:vibe|confirm_request|confirmed)"[^{}]*\}`)

// Extractor parses replies. The zero value works; the logger is optional.
type Extractor struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Parse splits a reply into the text meant for the user and the decision it
// carries. It never fails: malformed input yields the stripped reply and a
// no-op decision.
func (e *Extractor) Parse(reply string) (string, Decision) {
	spoken := Strip(reply)

	loc := markerRe.FindStringIndex(reply)
	if loc == nil {
		// No structured block at all; scan for a bare mood mention as a
		// diagnostic hint only.
		return spoken, Decision{Kind: KindNoOp, Hint: scanMoodHint(reply)}
	}

	fields, ok := parseBlock(reply[loc[1]:])
	if !ok {
		if e.log != nil {
			e.log.Infow("vibe_block_unparsable", "tail", truncate(reply[loc[1]:], 120))
		}
		return spoken, Decision{Kind: KindNoOp, Hint: scanMoodHint(spoken)}
	}

	return spoken, decide(fields)
}

// Strip removes the marker with everything after it, plus any embedded
// structured fragments, and normalizes whitespace. Pure; independent of
// whether the block parses.
func Strip(reply string) string {
	s := reply
	if loc := markerRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = fragmentRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// blockFields is the tolerant view of the structured record.
type blockFields struct {
	vibe           string
	confirmRequest bool
	confirmed      *bool
}

// parseBlock extracts the first {...} object after the marker and coerces the
// recognized fields. Returns ok=false when nothing decodable is there.
func parseBlock(tail string) (blockFields, bool) {
	start := strings.Index(tail, "{")
	end := strings.LastIndex(tail, "}")
	if start < 0 || end <= start {
		return blockFields{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(tail[start:end+1]), &raw); err != nil {
		return blockFields{}, false
	}

	var f blockFields
	if v, ok := raw["vibe"].(string); ok {
		f.vibe = strings.ToLower(strings.TrimSpace(v))
	}
	if b, ok := asBool(raw["confirm_request"]); ok {
		f.confirmRequest = b
	}
	if b, ok := asBool(raw["confirmed"]); ok {
		f.confirmed = &b
	}
	return f, true
}

// decide applies the field precedence: a fresh proposal always restarts the
// confirmation cycle, ahead of any confirmed flag in the same reply.
func decide(f blockFields) Decision {
	if f.confirmRequest && f.vibe != "" {
		return Decision{Kind: KindPropose, Vibe: f.vibe}
	}
	if f.confirmed != nil {
		if *f.confirmed {
			return Decision{Kind: KindConfirm}
		}
		return Decision{Kind: KindDecline}
	}
	return Decision{Kind: KindNoOp, Vibe: f.vibe}
}

// asBool coerces JSON booleans and their common string spellings.
func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

// scanMoodHint looks for a bare vibe keyword in free text.
func scanMoodHint(text string) string {
	lower := strings.ToLower(text)
	for _, key := range preset.Keys() {
		if containsWord(lower, key) {
			return key
		}
	}
	return ""
}

func containsWord(s, w string) bool {
	idx := strings.Index(s, w)
	for idx >= 0 {
		beforeOK := idx == 0 || !isWordChar(s[idx-1])
		afterIdx := idx + len(w)
		afterOK := afterIdx >= len(s) || !isWordChar(s[afterIdx])
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(s[idx+1:], w)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
