package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const excerptLimit = 200

// ParseError is returned when a model response cannot be read as the
// expected JSON object.
type ParseError struct {
	Stage   string
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %s response: %v (response starts with %q)", e.Stage, e.Err, e.Excerpt)
}

func (e *ParseError) Unwrap() error { return e.Err }

// extractor pulls a candidate JSON substring out of raw model text.
type extractor func(raw string) (string, bool)

var (
	jsonFence    = regexp.MustCompile("(?is)```json[ \\t]*\\r?\\n?(.*?)```")
	anyFence     = regexp.MustCompile("(?s)```(.*?)```")
	leadingLang  = regexp.MustCompile(`^[A-Za-z][\w+-]*[ \t]*\r?\n`)
	errNoPayload = fmt.Errorf("no JSON object found")
)

// extractors run in order; the first that finds something wins.
var extractors = []extractor{
	fromJSONFence,
	fromAnyFence,
	fromBraces,
}

func fromJSONFence(raw string) (string, bool) {
	m := jsonFence.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	body := strings.TrimSpace(m[1])
	return body, body != ""
}

func fromAnyFence(raw string) (string, bool) {
	m := anyFence.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	body := strings.TrimLeft(m[1], " \t")
	if !strings.HasPrefix(body, "{") && !strings.HasPrefix(body, "[") {
		body = leadingLang.ReplaceAllString(body, "")
	}
	body = strings.TrimSpace(body)
	return body, body != ""
}

func fromBraces(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// Extract returns the JSON candidate chosen by the first successful strategy.
func Extract(raw string) (string, bool) {
	for _, ex := range extractors {
		if s, ok := ex(raw); ok {
			return s, true
		}
	}
	return "", false
}

// ParseObject extracts a JSON object from raw and decodes it into v.
// It never retries the model; failures carry an excerpt of raw.
func ParseObject(stage, raw string, v any) error {
	candidate, ok := Extract(raw)
	if !ok {
		return &ParseError{Stage: stage, Excerpt: Excerpt(raw), Err: errNoPayload}
	}
	if !strings.HasPrefix(strings.TrimSpace(candidate), "{") {
		return &ParseError{Stage: stage, Excerpt: Excerpt(raw), Err: fmt.Errorf("expected a JSON object")}
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return &ParseError{Stage: stage, Excerpt: Excerpt(raw), Err: err}
	}
	return nil
}

// Excerpt truncates raw to a short prefix on a rune boundary.
func Excerpt(raw string) string {
	if len(raw) <= excerptLimit {
		return raw
	}
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return raw[:cut] + "..."
}
