// Package extract recovers a JSON value from free-form model output.
//
// Models are asked for strict JSON but routinely wrap it in markdown fences,
// add prose around it, or leave trailing commas and empty values behind.
// Structure handles exactly those cases with one strict parse, one fixed
// repair pass, and one retry. Anything else is reported as an error.
package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrNoStructureFound is returned when the text contains no '{' or '[' to start from
	ErrNoStructureFound = errors.New("no JSON structure found in response")

	// ErrUnrecoverableSyntax is returned when the located span still fails to parse after repair
	ErrUnrecoverableSyntax = errors.New("could not recover valid JSON from response")
)

// SyntaxError carries the cleaned text that failed the final parse so callers
// can log it. It matches ErrUnrecoverableSyntax with errors.Is.
type SyntaxError struct {
	Cleaned string // Text after slicing and repair
	Err     error  // Error from the final parse attempt
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnrecoverableSyntax.Error(), e.Err)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{ErrUnrecoverableSyntax, e.Err}
}

// Stage records which parse attempt produced the value.
type Stage string

const (
	StageStrict   Stage = "strict"
	StageRepaired Stage = "repaired"
	StageFailed   Stage = "failed"
)

var (
	codeFencePattern = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

	// Repairs, applied in this order
	emptyLast5Pattern    = regexp.MustCompile(`"last5Values"\s*:\s*,`)
	emptyValuePattern    = regexp.MustCompile(`":\s*,`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([\]}])`)
)

// Structure extracts and parses the JSON payload in raw. The returned value is
// a generic tree of map[string]any, []any, json.Number, string, bool and nil.
func Structure(raw string) (any, error) {
	v, _, err := StructureWithStage(raw)
	return v, err
}

// StructureWithStage is Structure that also reports which attempt succeeded.
func StructureWithStage(raw string) (any, Stage, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if v, err := decodeStrict(trimmed); err == nil {
			return v, StageStrict, nil
		}
	}

	text := StripCodeFence(trimmed)

	candidate, ok := Locate(text)
	if !ok {
		return nil, StageFailed, ErrNoStructureFound
	}

	if v, err := decodeStrict(candidate); err == nil {
		return v, StageStrict, nil
	}

	repaired := Repair(candidate)
	v, err := decodeStrict(repaired)
	if err != nil {
		return nil, StageFailed, &SyntaxError{Cleaned: repaired, Err: err}
	}
	return v, StageRepaired, nil
}

// StripCodeFence returns the inner content of the first fenced code block
// (optionally tagged json), or text unchanged when there is none.
func StripCodeFence(text string) string {
	if m := codeFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// Locate finds the outermost JSON container in text. Whichever of '{' or '['
// appears first decides the container type. The end is found with a
// balanced-bracket scan that ignores brackets inside string literals; if the
// scan never returns to depth zero, the last matching closing delimiter is used.
func Locate(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}

	if end := balancedEnd(text, start); end >= 0 {
		return text[start : end+1], true
	}

	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

// balancedEnd returns the index of the delimiter closing the container opened
// at start, or -1 if the text ends first.
func balancedEnd(text string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Repair applies the fixed set of textual fixes for known model mistakes:
// an empty last5Values becomes [], any other empty value becomes null, and
// trailing commas before '}' or ']' are dropped.
func Repair(text string) string {
	text = emptyLast5Pattern.ReplaceAllString(text, `"last5Values": [],`)
	text = emptyValuePattern.ReplaceAllString(text, `": null,`)
	text = trailingCommaPattern.ReplaceAllString(text, "$1")
	return text
}

// decodeStrict parses exactly one JSON value with nothing but whitespace after it.
func decodeStrict(text string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
