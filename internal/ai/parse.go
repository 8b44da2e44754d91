package ai

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

// Models return JSON wrapped in prose, markdown fences, or with small syntax
// defects (trailing commas, comments). The parser tries a sequence of
// recovery strategies before giving up, and callers default whatever fields
// are missing rather than failing the whole call.

// Pre-compiled patterns; compiling per parse is an order of magnitude slower.
var (
	fenceRegex         = regexp.MustCompile("(?s)`{3}(?:json|javascript|js)?\\s*\\n?([\\s\\S]*?)\\n?`{3}")
	trailingCommaRegex = regexp.MustCompile(`,(\s*[}\]])`)
	lineCommentRegex   = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	objectRegex        = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	arrayRegex         = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
)

// ParseResult carries either the decoded value or a failure reason. It never
// panics; failure always yields a defined fallback upstream.
type ParseResult[T any] struct {
	Success bool
	Data    T
	Reason  string
}

// Parse extracts a JSON value of type T from raw model output.
//
// Strategy sequence:
//  1. Direct parse.
//  2. Strip markdown code fences and retry.
//  3. Fix common defects (trailing commas, comments) and retry.
//  4. Extract the outermost JSON object/array from mixed prose and retry.
func Parse[T any](text, context string) ParseResult[T] {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return parseFailure[T]("empty input", context)
	}

	if v, err := tryDecode[T](trimmed); err == nil {
		return ParseResult[T]{Success: true, Data: v}
	}

	unfenced := stripFences(trimmed)
	if unfenced != trimmed {
		if v, err := tryDecode[T](unfenced); err == nil {
			return ParseResult[T]{Success: true, Data: v}
		}
	}

	cleaned := cleanJSON(unfenced)
	if v, err := tryDecode[T](cleaned); err == nil {
		return ParseResult[T]{Success: true, Data: v}
	}

	if extracted := extractJSON(cleaned); extracted != "" {
		if v, err := tryDecode[T](extracted); err == nil {
			return ParseResult[T]{Success: true, Data: v}
		}
	}

	return parseFailure[T]("no parse strategy succeeded", context)
}

// ParseOrDefault parses and returns fallback on any failure.
func ParseOrDefault[T any](text, context string, fallback T) T {
	result := Parse[T](text, context)
	if !result.Success {
		return fallback
	}
	return result.Data
}

func tryDecode[T any](text string) (T, error) {
	var v T
	err := json.Unmarshal([]byte(text), &v)
	return v, err
}

// stripFences removes markdown code fences wherever they appear.
func stripFences(text string) string {
	cleaned := fenceRegex.ReplaceAllString(text, "$1")
	if strings.HasPrefix(cleaned, "`") && strings.HasSuffix(cleaned, "`") {
		cleaned = strings.Trim(cleaned, "`")
	}
	return strings.TrimSpace(cleaned)
}

// cleanJSON fixes trailing commas and strips // and /* */ comments. It does
// not rewrite single quotes: that would break valid JSON containing
// apostrophes, and models emit double quotes consistently.
func cleanJSON(text string) string {
	cleaned := trailingCommaRegex.ReplaceAllString(strings.TrimSpace(text), "$1")
	cleaned = lineCommentRegex.ReplaceAllString(cleaned, "")
	cleaned = blockCommentRegex.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// extractJSON pulls the outermost JSON object or array out of mixed prose.
// The first-character check prevents extracting a single element out of an
// array response.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 0 {
		switch trimmed[0] {
		case '[':
			if m := arrayRegex.FindString(text); m != "" {
				return m
			}
		case '{':
			if m := objectRegex.FindString(text); m != "" {
				return m
			}
		}
	}
	if m := objectRegex.FindString(text); m != "" {
		return m
	}
	return arrayRegex.FindString(text)
}

func parseFailure[T any](reason, context string) ParseResult[T] {
	if context != "" {
		reason = context + ": " + reason
	}
	slog.Debug("JSON parse failed", "reason", reason)
	var zero T
	return ParseResult[T]{Success: false, Data: zero, Reason: reason}
}
